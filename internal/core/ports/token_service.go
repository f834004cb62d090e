package ports

import "github.com/cumroad/commerce-soap/internal/core/domain"

// TokenService hashes credentials and issues/validates bearer tokens.
// Validate returns one of domain.ErrTokenExpired, domain.ErrTokenSignature
// or domain.ErrTokenMalformed on failure.
type TokenService interface {
	HashPassword(plaintext string) (string, error)
	VerifyPassword(plaintext, hash string) bool
	Issue(userID int64, role string) (string, error)
	Validate(token string) (domain.Identity, error)
}
