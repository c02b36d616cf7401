package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/voltfleet/cpconsole/internal/csms"
	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
	"github.com/voltfleet/cpconsole/internal/ports"
)

// ErrNotAuthenticated is returned when no valid session exists for a
// session ID.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Backend  *csms.Client
	Sessions ports.SessionStore
	// DefaultTTL bounds a session's lifetime when the backend token does
	// not carry a usable exp claim.
	DefaultTTL time.Duration
}

// AuthService proxies credential flows to the charging backend and owns
// the server-side session lifecycle. The backend issues and verifies
// bearer tokens; this service only stores them alongside the operator's
// profile and derives the session expiry.
type AuthService struct {
	backend    *csms.Client
	sessions   ports.SessionStore
	defaultTTL time.Duration
}

// NewAuthService constructs an AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{
		backend:    opts.Backend,
		sessions:   opts.Sessions,
		defaultTTL: ttl,
	}
}

// Login exchanges credentials for a bearer token and persists a new
// session. A failed login leaves no session behind and surfaces the
// backend's message verbatim.
func (s *AuthService) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error) {
	resp, err := s.backend.Login(ctx, csms.LoginRequest{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		return domainauth.Session{}, err
	}

	token := resp.BearerToken()
	if token == "" {
		return domainauth.Session{}, errors.New("login response carried no token")
	}

	profile := resp.User
	if profile == nil {
		me, err := s.backend.Me(ctx, token)
		if err != nil {
			return domainauth.Session{}, fmt.Errorf("fetch profile: %w", err)
		}
		profile = &me
	}

	role := resp.Role
	if !role.Known() {
		role = profile.Role
	}

	session := domainauth.Session{
		ID:        uuid.New().String(),
		UserID:    fmt.Sprint(profile.ID),
		Username:  profile.Username,
		Email:     profile.Email,
		Role:      role,
		Token:     token,
		ExpiresAt: s.tokenExpiry(token, time.Now()),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// GetSession loads a session by ID. Expired or missing sessions surface
// as ErrNotAuthenticated; the stores already delete expired records on
// read.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (domainauth.Session, error) {
	if sessionID == "" {
		return domainauth.Session{}, ErrNotAuthenticated
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return domainauth.Session{}, ErrNotAuthenticated
		}
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Logout removes a session. Logging out a missing session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Signup registers an account with the backend and returns its
// acknowledgement message.
func (s *AuthService) Signup(ctx context.Context, req csms.SignupRequest) (string, error) {
	out, err := s.backend.Signup(ctx, req)
	if err != nil {
		return "", err
	}
	return out.Detail, nil
}

// ForgotPassword asks the backend to send a reset link. The returned ok
// flag distinguishes the backend declining from it accepting; only a
// transport failure is an error.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, bool, error) {
	out, err := s.backend.PasswordReset(ctx, email)
	if err != nil {
		var apiErr *csms.APIError
		if errors.As(err, &apiErr) {
			return apiErr.Message, false, nil
		}
		return "", false, err
	}
	return out.Detail, true, nil
}

// ResetPassword completes a reset with the emailed uid/token pair.
func (s *AuthService) ResetPassword(ctx context.Context, uid, token, newPassword string) (string, bool, error) {
	out, err := s.backend.PasswordResetConfirm(ctx, uid, token, newPassword)
	if err != nil {
		var apiErr *csms.APIError
		if errors.As(err, &apiErr) {
			return apiErr.Message, false, nil
		}
		return "", false, err
	}
	return out.Detail, true, nil
}

// tokenExpiry derives the session lifetime from the bearer token's exp
// claim. The parse is unverified: the backend owns signature validation,
// we only borrow the timestamp. Tokens that are not JWTs, carry no exp,
// or expire absurdly far out fall back to the default TTL.
func (s *AuthService) tokenExpiry(token string, now time.Time) time.Time {
	fallback := now.Add(s.defaultTTL)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fallback
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}
	if !exp.After(now) || exp.After(fallback.Add(30*24*time.Hour)) {
		return fallback
	}
	return exp.Time
}
