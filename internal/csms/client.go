// Package csms is the HTTP client for the charging-station management
// backend. Every call is a fresh round-trip authenticated with the caller's
// bearer token; the client holds no per-user state and performs no caching
// or retries.
package csms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrNoContent marks a 204 response. JSON returns it so callers can tell
// "no content" from an empty object; the verb helpers treat it as success
// and leave the decode target untouched.
var ErrNoContent = errors.New("csms: no content")

// APIError is a non-2xx backend response. Message follows the backend's
// own wording: the JSON body's `detail` or `error` field when present,
// else the raw body text, else "HTTP <status> <statusText>".
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Config holds the client's connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
}

// Client talks to the CSMS REST API under <base>/api.
type Client struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// New builds a Client. BaseURL is the backend origin without the /api
// suffix; it is appended here so callers pass bare paths like
// "/charge-points/".
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("csms base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL: base + "/api",
		client:  hc,
		log:     log,
	}, nil
}

// url joins a relative path onto the API root. A leading slash on the path
// is optional.
func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// do performs one request. A non-nil body is JSON-encoded and the JSON
// content type set; token, when non-empty, becomes the Authorization
// header. The caller owns the response body.
func (c *Client) do(ctx context.Context, token, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("csms %s %s: %w", method, path, err)
	}
	return resp, nil
}

// FetchJSON GETs path and decodes the JSON response into out. A 204 leaves
// out untouched. Non-2xx statuses return an *APIError carrying the
// backend's own message.
func (c *Client) FetchJSON(ctx context.Context, token, path string, out any) error {
	return noContentOK(c.JSON(ctx, token, http.MethodGet, path, nil, out))
}

// PostJSON sends body as JSON via POST and decodes the response into out
// (out may be nil when the response does not matter).
func (c *Client) PostJSON(ctx context.Context, token, path string, body, out any) error {
	if body == nil {
		body = map[string]any{}
	}
	return noContentOK(c.JSON(ctx, token, http.MethodPost, path, body, out))
}

// PatchJSON sends body as JSON via PATCH and decodes the response into out.
func (c *Client) PatchJSON(ctx context.Context, token, path string, body, out any) error {
	if body == nil {
		body = map[string]any{}
	}
	return noContentOK(c.JSON(ctx, token, http.MethodPatch, path, body, out))
}

// Delete issues a DELETE; a 204 is the expected success shape.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	return noContentOK(c.JSON(ctx, token, http.MethodDelete, path, nil, nil))
}

func noContentOK(err error) error {
	if errors.Is(err, ErrNoContent) {
		return nil
	}
	return err
}

// JSON is the generic JSON round-trip all the verb helpers delegate to.
func (c *Client) JSON(ctx context.Context, token, method, path string, body, out any) error {
	resp, err := c.do(ctx, token, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp)
	}
	if resp.StatusCode == http.StatusNoContent {
		return ErrNoContent
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// FetchBlob performs a request expecting a binary response (report
// downloads). Unlike the JSON path, error bodies are surfaced as raw text
// without field extraction.
func (c *Client) FetchBlob(ctx context.Context, token, method, path string, body any) (Blob, error) {
	resp, err := c.do(ctx, token, method, path, body)
	if err != nil {
		return Blob{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return Blob{}, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Blob{}, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	return Blob{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition")),
	}, nil
}

// errorFromResponse builds the APIError for a non-2xx JSON-path response.
func (c *Client) errorFromResponse(resp *http.Response) error {
	text, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(text))

	var fields struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(text, &fields) == nil {
		switch {
		case fields.Detail != "":
			msg = fields.Detail
		case fields.Error != "":
			msg = fields.Error
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// filenameFromDisposition pulls filename="..." out of a
// Content-Disposition header, empty when absent.
func filenameFromDisposition(header string) string {
	const marker = "filename="
	idx := strings.Index(header, marker)
	if idx < 0 {
		return ""
	}
	name := header[idx+len(marker):]
	if semi := strings.IndexByte(name, ';'); semi >= 0 {
		name = name[:semi]
	}
	return strings.Trim(strings.TrimSpace(name), `"`)
}
