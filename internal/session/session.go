// Package session owns client identity: startup bootstrap, login, signup,
// logout, and the credentials file that lets a session survive restarts.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mooncookies-cli/internal/model"
)

// AuthAPI is the slice of the resource client the controller drives.
type AuthAPI interface {
	Health(ctx context.Context) error
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (model.User, error)
	Signup(ctx context.Context, name, email, password string) error
	SetToken(token string)
}

var ErrNotLoggedIn = errors.New("session: not logged in")

type Controller struct {
	api   AuthAPI
	creds *CredentialsStore
	log   *slog.Logger

	user      *model.User
	connected bool
}

func New(api AuthAPI, creds *CredentialsStore, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{api: api, creds: creds, log: log}
}

// User returns the current identity, nil when unauthenticated. The record
// is immutable within a session and replaced wholesale on login/logout.
func (c *Controller) User() *model.User { return c.user }

// Connected reports the result of the startup reachability probe.
func (c *Controller) Connected() bool { return c.connected }

// Bootstrap verifies backend reachability, then tries to resolve an
// existing identity from the stored token. Identity resolution failure is
// "no session", not an error: the caller routes to the unauthenticated
// view either way.
func (c *Controller) Bootstrap(ctx context.Context) (connected bool, user *model.User) {
	if err := c.api.Health(ctx); err != nil {
		c.log.Warn("backend unreachable", "err", err)
		c.connected = false
		return false, nil
	}
	c.connected = true

	token, err := c.creds.Token()
	if err != nil || strings.TrimSpace(token) == "" {
		return true, nil
	}
	if tokenExpired(token) {
		// Stale token: skip the me() round trip and drop it.
		_ = c.creds.Clear()
		return true, nil
	}
	c.api.SetToken(token)
	u, err := c.api.Me(ctx)
	if err != nil {
		c.log.Info("no active session", "err", err)
		c.api.SetToken("")
		return true, nil
	}
	c.user = &u
	return true, &u
}

// Login authenticates, resolves the identity, and persists the token.
func (c *Controller) Login(ctx context.Context, email, password string) (model.User, error) {
	token, err := c.api.Login(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}
	u, err := c.api.Me(ctx)
	if err != nil {
		return model.User{}, err
	}
	if err := c.creds.Save(token); err != nil {
		c.log.Warn("could not persist credentials", "err", err)
	}
	c.user = &u
	return u, nil
}

// Signup registers a customer account, then immediately logs in with the
// same credentials. A signup failure (e.g. duplicate email) is returned
// without attempting the login.
func (c *Controller) Signup(ctx context.Context, name, email, password string) (model.User, error) {
	if err := c.api.Signup(ctx, name, email, password); err != nil {
		return model.User{}, err
	}
	return c.Login(ctx, email, password)
}

// Logout drops the identity. The server call is best-effort; local state
// is cleared even when it fails.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.log.Warn("logout call failed", "err", err)
	}
	c.api.SetToken("")
	c.user = nil
	if err := c.creds.Clear(); err != nil {
		c.log.Warn("could not clear credentials", "err", err)
	}
}

// tokenExpired inspects the exp claim without verifying the signature.
// The server remains the authority; this only avoids a doomed request.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Opaque (non-JWT) tokens: let the server decide.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
