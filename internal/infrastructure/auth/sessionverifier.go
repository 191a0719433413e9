// Package auth verifies session tokens issued by the account service.
// Tokens are verified here only; issuing happens upstream.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	sharedConfig "invitio/internal/shared/config"
)

// SessionClaims carries the account identity embedded in a session token
type SessionClaims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

// SessionVerifier validates HS256 session tokens against the shared secret
type SessionVerifier struct {
	secret []byte
	issuer string
}

// NewSessionVerifier creates a verifier from session configuration
func NewSessionVerifier(cfg sharedConfig.SessionConfig) *SessionVerifier {
	return &SessionVerifier{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// Verify parses and validates a session token and returns its claims
func (v *SessionVerifier) Verify(tokenString string) (*SessionClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.AccountID == "" {
		return nil, fmt.Errorf("token carries no account identity")
	}

	return claims, nil
}
