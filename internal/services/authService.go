package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a portal access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users UserStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl}
}

// GenerateJWT signs an HS256 token for email that expires after the configured ttl.
func (s *AuthService) GenerateJWT(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies signature and expiry. Every failure wraps ErrForbidden.
func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.Email == "" {
		return nil, fmt.Errorf("%w: invalid token claims", ErrForbidden)
	}
	return claims, nil
}

// IssueToken hands out a token only to emails that already belong to a user.
func (s *AuthService) IssueToken(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: no email", ErrForbidden)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("%w: unknown user", ErrForbidden)
	}
	return s.GenerateJWT(email)
}

// RequireAdmin trusts email to come from a verified token and checks the
// stored role.
func (s *AuthService) RequireAdmin(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return fmt.Errorf("%w: %s is not an admin", ErrForbidden, email)
	}
	return nil
}
