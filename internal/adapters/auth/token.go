package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventboard/internal/domain"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// JWTService issues and verifies HS256 session tokens with a shared secret.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService returns a JWTService. An empty secret is rejected.
func NewJWTService(secret string) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWTService{secret: []byte(secret), now: time.Now}, nil
}

var (
	_ domain.TokenIssuer   = (*JWTService)(nil)
	_ domain.TokenVerifier = (*JWTService)(nil)
)

func (s *JWTService) Issue(userID, username string, expiry time.Duration) (string, error) {
	now := s.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Username: username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature, algorithm and expiry. Every failure is domain.ErrInvalidSession
// with the parser error attached as the cause.
func (s *JWTService) Verify(tokenString string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindInvalidSession, Message: domain.ErrInvalidSession.Message, Err: err}
	}
	if claims.Subject == "" {
		return "", domain.ErrInvalidSession
	}
	return claims.Subject, nil
}
