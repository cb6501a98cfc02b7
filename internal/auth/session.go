package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie the session token travels in.
const SessionCookie = "fp_session"

// SessionTTL bounds how long a session token is honored.
const SessionTTL = 24 * time.Hour

// SessionClaims is what the service signs into its session tokens: the
// provider's user plus the provider access token needed for sign-out.
type SessionClaims struct {
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
	jwt.RegisteredClaims
}

// IssueSession signs a session token for a freshly authenticated user.
func IssueSession(secret string, user User, accessToken string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Email:       user.Email,
		AccessToken: accessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseSession validates a session token and returns its claims.
func ParseSession(secret, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
