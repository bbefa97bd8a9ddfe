package api

import (
	"context"
	"net/http"
	"time"

	"github.com/seckatie/linklift/internal/core/domain"
)

// Login authenticates and installs the returned session.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	var out domain.AuthResult
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds, noRefresh: true}, &out)
	if err != nil {
		return domain.Session{}, err
	}
	s := out.Session()
	s.SavedAt = time.Now().Format(time.RFC3339)
	s.APIURL = c.baseURL
	c.updateSession(s)
	return s, nil
}

// Register creates an account. It does not sign the user in.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	var out struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: reg, noRefresh: true}, &out)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		UserID:    out.ID,
		Username:  out.Username,
		Email:     out.Email,
		FirstName: out.FirstName,
		LastName:  out.LastName,
	}, nil
}

// Logout ends the session on the backend. The local session is cleared even
// when the call fails; the call's error is still returned.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", noRefresh: true}, nil)
	c.updateSession(domain.Session{})
	return err
}

// Refresh exchanges the refresh token for a new session. On failure the
// session is cleared.
func (c *Client) Refresh(ctx context.Context) error {
	refreshToken := c.Session().RefreshToken
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	var out domain.AuthResult
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/refresh", body: body, noRefresh: true}, &out); err != nil {
		c.updateSession(domain.Session{})
		return err
	}

	s := out.Session()
	s.SavedAt = time.Now().Format(time.RFC3339)
	s.APIURL = c.baseURL
	c.updateSession(s)
	return nil
}
