// Package auth issues and verifies the platform's session tokens.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/judelaw007/connectbymanus-sub000/internal/config"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrAuthenticationRequired covers every admission failure: missing
// credential, bad or expired signature, unknown subject. The client
// must reconnect with a fresh token; there are no retries.
var ErrAuthenticationRequired = errors.New("authentication required")

// GenerateToken генерує JWT із ID користувача як subject.
func GenerateToken(userID, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(config.TokenTTL).Unix(),
		"iss": config.TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken checks the signature and expiry and returns the embedded
// user ID. Every failure mode collapses into ErrAuthenticationRequired.
func VerifyToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrAuthenticationRequired
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrAuthenticationRequired
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrAuthenticationRequired
	}
	return sub, nil
}

// CredentialFromRequest pulls the token out of the handshake: an
// explicit "token" query parameter first, then the platform session
// cookie parsed from the Cookie header.
func CredentialFromRequest(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if c, err := r.Cookie(config.SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
