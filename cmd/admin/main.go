package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"math-solver/internal/config"
	"math-solver/internal/db"
	"math-solver/internal/repository"
	"math-solver/internal/service"
)

func main() {
	emailAddr := flag.String("email", "", "email de la cuenta a modificar")
	revoke := flag.Bool("revoke", false, "quita el rol de administrador en vez de otorgarlo")
	flag.Parse()

	if *emailAddr == "" {
		fmt.Fprintln(os.Stderr, "usage: admin -email <addr> [-revoke]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := db.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if err := run(ctx, logger, store.Users, os.Stdout, *emailAddr, !*revoke); err != nil {
		log.Fatal(err)
	}
}

// run aplica el cambio de rol y escribe el resultado en out.
func run(ctx context.Context, logger *zap.Logger, users repository.UserRepository, out io.Writer, emailAddr string, grant bool) error {
	adminSvc := service.NewAdminService(logger, users)
	user, err := adminSvc.SetAdmin(ctx, emailAddr, grant)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fmt.Errorf("no existe una cuenta con email %s", emailAddr)
		}
		return fmt.Errorf("actualizar rol: %w", err)
	}

	if user.IsAdmin {
		fmt.Fprintf(out, "%s (%s) ahora es administrador\n", user.Email, user.ID)
	} else {
		fmt.Fprintf(out, "%s (%s) ya no es administrador\n", user.Email, user.ID)
	}
	return nil
}
