// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"eatery/config"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

//nolint:gochecknoglobals
var forbiddenPasswordWords = []string{"password", "admin", "qwerty", "123456", "eatery"}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher.
// The cost comes from auth.bcryptCost.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	return NewBcryptHasherWithCost(cost)
}

// NewBcryptHasherWithCost creates a hasher with an explicit bcrypt cost.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash validates the password policy and generates a salted hash using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if err := h.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength checks length, character classes and forbidden words in that order.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	switch {
	case utf8.RuneCountInString(password) < minPasswordLength:
		return errors.WithStack(domainerrors.ErrPasswordTooShort)
	case !h.hasLowercase(password):
		return errors.WithStack(domainerrors.ErrPasswordNoLowercase)
	case !h.hasUppercase(password):
		return errors.WithStack(domainerrors.ErrPasswordNoUppercase)
	case !h.hasNumbers(password):
		return errors.WithStack(domainerrors.ErrPasswordNoNumber)
	case !h.hasSpecialChars(password):
		return errors.WithStack(domainerrors.ErrPasswordNoSpecialChar)
	case h.containsForbiddenWords(password, forbiddenPasswordWords):
		return errors.WithStack(domainerrors.ErrPasswordForbiddenWords)
	}

	return nil
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}

func (h *bcryptHasher) containsForbiddenWords(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, word := range words {
		if strings.Contains(lower, word) {
			return true
		}
	}

	return false
}
