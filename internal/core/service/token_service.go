package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cumroad/commerce-soap/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the JWT payload. The jti claim makes every issued token
// unique even for the same user within one second.
type tokenClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService hashes passwords with bcrypt and signs HS256 bearer tokens.
// The signing secret is fixed at construction; rotating it invalidates all
// previously issued tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *TokenService) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Issue signs a token embedding the user identity, role and expiry.
func (s *TokenService) Issue(userID int64, role string) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate parses and verifies a token, returning the embedded identity.
// Failures are reported as one of the domain token errors so callers can
// distinguish expiry from forgery from garbage.
func (s *TokenService) Validate(token string) (domain.Identity, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Identity{}, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Identity{}, domain.ErrTokenSignature
		default:
			return domain.Identity{}, domain.ErrTokenMalformed
		}
	}
	if !parsed.Valid || claims.UserID == 0 {
		return domain.Identity{}, domain.ErrTokenMalformed
	}

	return domain.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
