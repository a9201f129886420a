package service

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes es el limite de entrada de bcrypt.
const maxPasswordBytes = 72

// passwordMaxBytes rechaza contrasenas que bcrypt no puede hashear.
var passwordMaxBytes = validation.By(func(value interface{}) error {
	if s, ok := value.(string); ok && len(s) > maxPasswordBytes {
		return errors.New("must be at most 72 bytes long")
	}
	return nil
})

// PasswordHasher abstrae el hash de contrasenas.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// BcryptHasher implementa PasswordHasher con bcrypt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

func (h *BcryptHasher) Compare(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
