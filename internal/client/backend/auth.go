package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ibrathesheriff/stackrail/internal/client/models"
)

// refreshMargin is how close to expiry an access token may be before
// SetSession trades it for a new one.
const refreshMargin = 60 * time.Second

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpRequest struct {
	Type  string `json:"type"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignUp registers a new account. The backend emails a one-time code that
// VerifyOTP later exchanges for a session.
func (c *HTTPClient) SignUp(ctx context.Context, email string, password []byte) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/signup",
		bearer: c.anonKey,
		body:   credentials{Email: email, Password: string(password)},
	}, nil)
}

func (c *HTTPClient) SignInWithPassword(ctx context.Context, email string, password []byte) (*models.Session, error) {
	var s models.Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/token",
		query:  url.Values{"grant_type": {"password"}},
		bearer: c.anonKey,
		body:   credentials{Email: email, Password: string(password)},
	}, &s)
	if err != nil {
		return nil, err
	}
	return c.adopt(s)
}

// VerifyOTP confirms an email sign-up. A nil session with a nil error means
// the backend accepted the code without issuing credentials.
func (c *HTTPClient) VerifyOTP(ctx context.Context, email, token string) (*models.Session, error) {
	var s models.Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/verify",
		bearer: c.anonKey,
		body:   otpRequest{Type: "email", Email: email, Token: token},
	}, &s)
	if err != nil {
		return nil, err
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return c.adopt(s)
}

// SetSession installs s as the active session. An access token that is
// expired or about to expire is refreshed; otherwise it is validated against
// the user endpoint. The returned session may carry a different access token
// than s.
func (c *HTTPClient) SetSession(ctx context.Context, s models.Session) (*models.Session, error) {
	if s.AccessToken == "" || s.RefreshToken == "" {
		return nil, ErrSessionMissing
	}

	if c.expiresSoon(s) {
		return c.refresh(ctx, s.RefreshToken)
	}

	user, err := c.fetchUser(ctx, s.AccessToken)
	if err != nil {
		return nil, err
	}
	s.User = user
	c.setSession(&s)
	return c.Session(), nil
}

// SignOut revokes the active session. Without one there is nothing to revoke.
func (c *HTTPClient) SignOut(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/logout",
	}, nil)
	c.setSession(nil)
	return err
}

// GetUser resolves the user behind the active session. It returns (nil, nil)
// when there is no session or the backend no longer accepts it.
func (c *HTTPClient) GetUser(ctx context.Context) (*models.User, error) {
	if c.session == nil {
		return nil, nil
	}
	user, err := c.fetchUser(ctx, c.session.AccessToken)
	if errors.Is(err, ErrUnauthorized) {
		return nil, nil
	}
	return user, err
}

func (c *HTTPClient) fetchUser(ctx context.Context, accessToken string) (*models.User, error) {
	var u models.User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   authPrefix + "/user",
		bearer: accessToken,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	var s models.Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		bearer: c.anonKey,
		body:   refreshRequest{RefreshToken: refreshToken},
	}, &s)
	if err != nil {
		return nil, err
	}
	return c.adopt(s)
}

// adopt fills in the absolute expiry and makes s the active session.
func (c *HTTPClient) adopt(s models.Session) (*models.Session, error) {
	if s.AccessToken == "" {
		return nil, fmt.Errorf("decode session: %w", ErrSessionMissing)
	}
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = c.now().Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
	}
	c.setSession(&s)
	return c.Session(), nil
}

// expiresSoon reads the exp claim without verifying the signature; the
// backend does that. Tokens that are not JWTs fall back to ExpiresAt.
func (c *HTTPClient) expiresSoon(s models.Session) bool {
	exp := s.ExpiresAt

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, &claims); err == nil && claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Unix()
	}

	if exp == 0 {
		return true
	}
	return time.Unix(exp, 0).Before(c.now().Add(refreshMargin))
}
