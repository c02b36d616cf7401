package csms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client, srv
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestFetchJSONSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotContentType string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))

	var out map[string]string
	err := client.FetchJSON(context.Background(), "tok-123", "charge-points/", &out)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/api/charge-points/", gotPath)
	assert.Empty(t, gotContentType, "GET without body must not claim a JSON body")
	assert.Equal(t, "yes", out["ok"])
}

func TestFetchJSONOmitsAuthWithoutToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	var out map[string]any
	require.NoError(t, client.FetchJSON(context.Background(), "", "/public/charge-points/", &out))
	assert.Empty(t, gotAuth)
}

func TestErrorMessageFromDetailField(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Invalid credentials"}`))
	}))

	err := client.FetchJSON(context.Background(), "t", "/me/", &map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestErrorMessageFromErrorField(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"not yours"}`))
	}))

	err := client.FetchJSON(context.Background(), "t", "/me/", &map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "not yours", err.Error())
}

func TestErrorMessageFromRawBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("oops"))
	}))

	err := client.FetchJSON(context.Background(), "t", "/me/", &map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "oops", err.Error())
}

func TestErrorMessageFromStatusLine(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	err := client.FetchJSON(context.Background(), "t", "/me/", &map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "HTTP 502 Bad Gateway", err.Error())
}

func TestNoContentLeavesTargetUntouched(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	var out map[string]any
	err := client.FetchJSON(context.Background(), "t", "/thing/", &out)
	require.NoError(t, err)
	assert.Nil(t, out, "204 must yield no content, not an empty object")

	// The low-level call exposes the distinction.
	err = client.JSON(context.Background(), "t", http.MethodGet, "/thing/", nil, &out)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestPostJSONDefaultsEmptyBody(t *testing.T) {
	var gotBody string
	var gotContentType string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 16)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"detail":"stopped"}`))
	}))

	var out Detail
	require.NoError(t, client.PostJSON(context.Background(), "t", "/public/charge-points/4/stop/", nil, &out))
	assert.Equal(t, "{}", gotBody)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "stopped", out.Detail)
}

func TestFetchBlob(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		w.Write([]byte("%PDF-1.7"))
	}))

	blob, err := client.FetchBlob(context.Background(), "t", http.MethodPost, "/reports/", ReportRequest{Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), blob.Data)
	assert.Equal(t, "application/pdf", blob.ContentType)
	assert.Equal(t, "report.pdf", blob.Filename)
}

func TestFetchBlobNoBodyNoContentType(t *testing.T) {
	var gotContentType string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte("data"))
	}))

	_, err := client.FetchBlob(context.Background(), "t", http.MethodGet, "/reports/latest/", nil)
	require.NoError(t, err)
	assert.Empty(t, gotContentType)
}

func TestFetchBlobErrorUsesRawText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"bad range"}`))
	}))

	_, err := client.FetchBlob(context.Background(), "t", http.MethodPost, "/reports/", ReportRequest{})
	require.Error(t, err)
	assert.Equal(t, `{"detail":"bad range"}`, err.Error())
}

func TestLoginTokenVariants(t *testing.T) {
	assert.Equal(t, "abc", LoginResponse{Token: "abc"}.BearerToken())
	assert.Equal(t, "xyz", LoginResponse{Access: "xyz"}.BearerToken())
	assert.Equal(t, "abc", LoginResponse{Token: "abc", Access: "xyz"}.BearerToken())
}

func TestSessionsEnvelopeAndPlainList(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "" {
			w.Write([]byte(`{"count":42,"results":[{"id":1}]}`))
			return
		}
		w.Write([]byte(`[{"id":2},{"id":3}]`))
	}))

	page, err := client.SessionsPage(context.Background(), "t", 1, 25)
	require.NoError(t, err)
	assert.Equal(t, 42, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 1, page.Results[0].ID)

	page, err = client.SessionsOffset(context.Background(), "t", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, -1, page.Count)
	assert.Len(t, page.Results, 2)
}

func TestCommandResultMessage(t *testing.T) {
	assert.Equal(t, "queued", CommandResult{}.Message())
	assert.Equal(t, "accepted", CommandResult{Detail: "accepted"}.Message())
}

func TestChargePointKey(t *testing.T) {
	assert.Equal(t, 7, ChargePoint{PK: 7, ID: 3}.Key())
	assert.Equal(t, 3, ChargePoint{ID: 3}.Key())
}
