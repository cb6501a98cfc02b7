// Package auth consumes the external identity provider and manages the
// local session cookie. The provider itself is a black box; every profile
// and plan operation is gated on "is there a logged-in user".
package auth

import "context"

// User is the identity the provider reports for a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is a provider session: its tokens plus the resolved user.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Provider is the capability surface required from the identity provider.
// Implemented over HTTP in production and by a fake in tests.
type Provider interface {
	GetUser(ctx context.Context, accessToken string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	OAuthURL(provider, redirectTo string) string
	ExchangeCode(ctx context.Context, code string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}
