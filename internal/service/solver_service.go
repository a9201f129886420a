package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"math-solver/internal/llm"
)

// SolverService resuelve expresiones LaTeX con el LLM y guarda el historial.
type SolverService struct {
	logger *zap.Logger
	llm    llm.LLMClient
	users  *UserService
}

func NewSolverService(logger *zap.Logger, client llm.LLMClient, users *UserService) *SolverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolverService{logger: logger, llm: client, users: users}
}

type Solution struct {
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
}

// Solve envia la expresion al LLM. Si userID no esta vacio el resultado se agrega a su historial;
// un fallo al guardar el historial no invalida la respuesta.
func (s *SolverService) Solve(ctx context.Context, userID, latex string) (Solution, error) {
	latex = strings.TrimSpace(latex)
	if latex == "" {
		return Solution{}, &ValidationError{Err: errors.New("latex expression is required")}
	}
	if s.llm == nil {
		return Solution{}, ErrSolverUnavailable
	}

	text, err := s.llm.Generate(ctx, latex)
	if err != nil {
		s.logger.Error("solver request failed", zap.Error(err))
		if errors.Is(err, llm.ErrNotConfigured) {
			return Solution{}, ErrSolverUnavailable
		}
		return Solution{}, err
	}
	text = cleanSolutionText(text)

	result := Solution{Problem: latex, Solution: text}
	if userID != "" && s.users != nil {
		if _, err := s.users.AppendHistory(ctx, userID, latex, text); err != nil {
			s.logger.Warn("append history failed", zap.Error(err), zap.String("user_id", userID))
		}
	}
	return result, nil
}
