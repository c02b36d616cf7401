package httpx

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cpconsole "github.com/voltfleet/cpconsole"
	"github.com/voltfleet/cpconsole/internal/adapters/memory"
	"github.com/voltfleet/cpconsole/internal/csms"
	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
	"github.com/voltfleet/cpconsole/internal/gate"
	"github.com/voltfleet/cpconsole/internal/service"
)

// testEnv wires a full router against a fake charging backend.
type testEnv struct {
	Router   http.Handler
	Sessions *memory.SessionStore
	Auth     *service.AuthService
	Gate     *gate.Gate
}

func newTestEnv(t *testing.T, backend http.Handler) *testEnv {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := csms.New(csms.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	sessions := memory.NewSessionStore()
	auth := service.NewAuthService(service.AuthServiceOptions{
		Backend:  client,
		Sessions: sessions,
	})
	commands := service.NewCommandService(service.CommandServiceOptions{
		Backend: client,
		Log:     memory.NewCommandLog(50),
	})
	overview := service.NewOverviewService(service.OverviewServiceOptions{Backend: client})

	templates, err := fs.Sub(cpconsole.TemplateFS, "frontend/templates")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templates, Logger: logger})
	require.NoError(t, err)

	g := gate.New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	g.Start(ctx)
	g.ResolveAuth()
	select {
	case <-g.Ready():
	case <-time.After(time.Second):
		t.Fatal("gate never became ready")
	}

	handlers := &UIHandlers{
		T:          renderer,
		Auth:       auth,
		Commands:   commands,
		Overview:   overview,
		Backend:    client,
		Gate:       g,
		Logger:     logger,
		CookieName: "session_id",
	}

	router := NewRouter(RouterConfig{
		Handlers:           handlers,
		Auth:               auth,
		Gate:               g,
		Logger:             logger,
		SessionCookieName:  "session_id",
		LoginRatePerMinute: 600,
		LoginRateBurst:     100,
	})

	return &testEnv{Router: router, Sessions: sessions, Auth: auth, Gate: g}
}

// seedSession stores a session directly and returns the cookie to send.
func (e *testEnv) seedSession(t *testing.T, role domainauth.Role) *http.Cookie {
	t.Helper()
	sess := domainauth.Session{
		ID:        "test-" + string(role),
		UserID:    "7",
		Username:  "op",
		Role:      role,
		Token:     "backend-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, e.Sessions.Save(context.Background(), sess))
	return &http.Cookie{Name: "session_id", Value: sess.ID}
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}
