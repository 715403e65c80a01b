package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type SessionClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// SessionService mints and validates the bearer tokens issued after login.
type SessionService interface {
	Issue(accountID int) (string, error)
	Validate(token string) (int, error)
}

type sessionService struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionService(secret string, ttl time.Duration) SessionService {
	return &sessionService{secret: []byte(secret), ttl: ttl}
}

func (s *sessionService) Issue(accountID int) (string, error) {
	claims := &SessionClaims{
		UserID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *sessionService) Validate(tokenStr string) (int, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// HMAC only; anything else is treated as a forgery attempt
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredSession
		}
		return 0, ErrInvalidSession
	}
	if !token.Valid {
		return 0, ErrInvalidSession
	}
	return claims.UserID, nil
}
