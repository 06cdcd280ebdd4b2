// Package auth issues and verifies the bearer tokens and password hashes
// behind the API's identity layer.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

const (
	// AccessTokenTTL is the session lifetime.
	AccessTokenTTL = 12 * time.Hour
	// ResetTokenTTL bounds how long a password-reset link stays usable.
	ResetTokenTTL = time.Hour

	purposeAccess = "access"
	purposeReset  = "password_reset"
)

type Claims struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens. Access and reset tokens
// share the signing key but carry distinct purpose claims, so one can never
// stand in for the other.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (m *TokenManager) IssueAccessToken(userID string) (string, error) {
	return m.issue(userID, purposeAccess, AccessTokenTTL)
}

func (m *TokenManager) IssueResetToken(userID string) (string, error) {
	return m.issue(userID, purposeReset, ResetTokenTTL)
}

func (m *TokenManager) issue(userID, purpose string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyAccessToken returns the user ID carried by a valid access token.
func (m *TokenManager) VerifyAccessToken(tokenString string) (string, error) {
	return m.verify(tokenString, purposeAccess)
}

// VerifyResetToken returns the user ID carried by a valid reset token.
func (m *TokenManager) VerifyResetToken(tokenString string) (string, error) {
	return m.verify(tokenString, purposeReset)
}

func (m *TokenManager) verify(tokenString, purpose string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Purpose != purpose {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
