package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltfleet/cpconsole/internal/adapters/memory"
	"github.com/voltfleet/cpconsole/internal/csms"
	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
)

func newBackend(t *testing.T, handler http.Handler) *csms.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := csms.New(csms.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestLoginHappyPath(t *testing.T) {
	tokenExp := time.Now().Add(2 * time.Hour)
	token := signedToken(t, tokenExp)

	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login/":
			var req csms.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "admin", req.Username)
			assert.Equal(t, "hunter2", req.Password)
			json.NewEncoder(w).Encode(map[string]any{
				"token": token,
				"role":  "super_admin",
				"user": map[string]any{
					"id":       42,
					"username": "admin",
					"email":    "admin@example.com",
					"role":     "super_admin",
				},
			})
		default:
			t.Fatalf("unexpected call to %s", r.URL.Path)
		}
	}))

	store := memory.NewSessionStore()
	svc := NewAuthService(AuthServiceOptions{Backend: backend, Sessions: store})

	sess, err := svc.Login(context.Background(), domainauth.Credentials{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleSuperAdmin, sess.Role)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, "42", sess.UserID)
	assert.WithinDuration(t, tokenExp, sess.ExpiresAt, time.Second, "expiry must come from the token's exp claim")

	got, err := svc.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)
}

func TestLoginFetchesProfileWhenAbsent(t *testing.T) {
	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login/":
			json.NewEncoder(w).Encode(map[string]any{"access": "opaque-token"})
		case "/api/me/":
			assert.Equal(t, "Bearer opaque-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{
				"id":       7,
				"username": "driver",
				"role":     "user",
			})
		default:
			t.Fatalf("unexpected call to %s", r.URL.Path)
		}
	}))

	svc := NewAuthService(AuthServiceOptions{
		Backend:    backend,
		Sessions:   memory.NewSessionStore(),
		DefaultTTL: time.Hour,
	})

	sess, err := svc.Login(context.Background(), domainauth.Credentials{Username: "driver", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUser, sess.Role)
	assert.Equal(t, "opaque-token", sess.Token)
	// Opaque token, so the default TTL applies.
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Invalid username or password"}`))
	}))

	store := memory.NewSessionStore()
	svc := NewAuthService(AuthServiceOptions{Backend: backend, Sessions: store})

	_, err := svc.Login(context.Background(), domainauth.Credentials{Username: "x", Password: "y"})
	require.Error(t, err)
	assert.Equal(t, "Invalid username or password", err.Error())
	assert.Zero(t, store.Len())
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"role": "user"})
	}))

	svc := NewAuthService(AuthServiceOptions{Backend: backend, Sessions: memory.NewSessionStore()})
	_, err := svc.Login(context.Background(), domainauth.Credentials{})
	require.Error(t, err)
}

func TestGetSessionExpired(t *testing.T) {
	store := memory.NewSessionStore()
	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		ID:        "old",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	svc := NewAuthService(AuthServiceOptions{Sessions: store})
	_, err := svc.GetSession(context.Background(), "old")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, store.Len(), "expired session must be deleted")
}

func TestLogoutIdempotent(t *testing.T) {
	store := memory.NewSessionStore()
	svc := NewAuthService(AuthServiceOptions{Sessions: store})

	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		ID:        "s1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, svc.Logout(context.Background(), "s1"))
	require.NoError(t, svc.Logout(context.Background(), "s1"))
	require.NoError(t, svc.Logout(context.Background(), ""))

	_, err := svc.GetSession(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestForgotPasswordOutcomes(t *testing.T) {
	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "known@example.com" {
			json.NewEncoder(w).Encode(map[string]string{"detail": "Reset link sent"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"No account for that email"}`))
	}))

	svc := NewAuthService(AuthServiceOptions{Backend: backend, Sessions: memory.NewSessionStore()})

	detail, ok, err := svc.ForgotPassword(context.Background(), "known@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Reset link sent", detail)

	detail, ok, err = svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.NoError(t, err, "a backend decline is an outcome, not an error")
	assert.False(t, ok)
	assert.Equal(t, "No account for that email", detail)
}

func TestResetPassword(t *testing.T) {
	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/password/reset/confirm/", r.URL.Path)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "uid-1", body["uid"])
		assert.Equal(t, "tok-1", body["token"])
		assert.Equal(t, "newpass123", body["new_password"])
		json.NewEncoder(w).Encode(map[string]string{"detail": "Password changed"})
	}))

	svc := NewAuthService(AuthServiceOptions{Backend: backend, Sessions: memory.NewSessionStore()})
	detail, ok, err := svc.ResetPassword(context.Background(), "uid-1", "tok-1", "newpass123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Password changed", detail)
}

func TestTokenExpiryFallbacks(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{DefaultTTL: time.Hour})
	now := time.Now()

	// Not a JWT.
	exp := svc.tokenExpiry("opaque", now)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	// JWT already expired.
	exp = svc.tokenExpiry(signedToken(t, now.Add(-time.Minute)), now)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	// Valid exp wins.
	want := now.Add(30 * time.Minute)
	exp = svc.tokenExpiry(signedToken(t, want), now)
	assert.WithinDuration(t, want, exp, time.Second)
}
