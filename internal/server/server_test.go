package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sheetgrid/pkg/cache"
	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/observability"
	"github.com/matzehuels/sheetgrid/pkg/pipeline"
	tableio "github.com/matzehuels/sheetgrid/pkg/table/io"
)

const scoreBody = `{
  "table": {"header": ["Name", "Score"], "rows": [["Alice", "95"], ["Bob", "87"]], "policies": ["auto", "flexible"]},
  "options": {"width": 200, "measurer": "cells"}
}`

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	ts := httptest.NewServer(New(runner, logger, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readAll(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("response has no request ID")
	}
}

func TestRequestIDEcho(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(HeaderRequestID); got != "req-42" {
		t.Errorf("request ID = %q, want req-42", got)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/layout", scoreBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, readAll(t, resp))
	}
	l, err := tableio.UnmarshalLayout(readAll(t, resp))
	if err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if l.ColumnCount() != 2 {
		t.Fatalf("columns = %d, want 2", l.ColumnCount())
	}
	if l.AvailableWidth != 200 || !l.Flexible[1] {
		t.Errorf("layout = %+v", l)
	}
	if got := resp.Header.Get(HeaderCache); got != "miss" {
		t.Errorf("%s = %q, want miss", HeaderCache, got)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"text", "text/plain; charset=utf-8", "Alice"},
		{"json", "application/json", `"columns"`},
		{"SVG", "image/svg+xml", "<svg"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := post(t, ts, "/render/"+tt.format, scoreBody)
			body := readAll(t, resp)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q:\n%s", tt.contains, body)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"unknown format", "/render/pdf", scoreBody, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad json", "/layout", `{"table":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", "/layout", `{"tabel": {}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"no table", "/layout", `{"options": {}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad measurer", "/layout", `{"table": {"header": ["A"]}, "options": {"measurer": "ruler"}}`, http.StatusBadRequest, errors.ErrCodeInvalidMeasurer},
		{"bad policy", "/layout", `{"table": {"header": ["A"], "policies": ["wide"]}}`, http.StatusBadRequest, errors.ErrCodeInvalidPolicy},
		{"negative width", "/layout", `{"table": {"header": ["A"]}, "options": {"width": -1}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"path disabled", "/layout", `{"path": "scores.csv"}`, http.StatusUnsupportedMediaType, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decodeError(t, resp); body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Error)
			}
		})
	}
}

func TestPathRequests(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "scores.csv"), []byte("Name,Score\nAlice,95\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, WithRoot(root))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"inside root", `{"path": "scores.csv", "options": {"measurer": "cells"}}`, http.StatusOK},
		{"traversal", `{"path": "../etc/passwd.csv"}`, http.StatusBadRequest},
		{"absolute", `{"path": "/etc/passwd.csv"}`, http.StatusBadRequest},
		{"missing", `{"path": "absent.csv"}`, http.StatusNotFound},
		{"both", `{"path": "scores.csv", "table": {"header": ["A"]}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/render/text", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.status, readAll(t, resp))
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, WithMaxBodySize(16))

	resp := post(t, ts, "/layout", scoreBody)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

type response struct {
	method string
	route  string
	status int
}

type recordingHooks struct {
	observability.NoopServerHooks
	mu        sync.Mutex
	requests  int
	responses []response
}

func (h *recordingHooks) OnRequest(context.Context, string, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHooks) OnResponse(_ context.Context, _, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, response{method, route, status})
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	logger := log.New(io.Discard)
	h := New(pipeline.NewRunner(cache.NewNullCache(), nil, logger), logger).Handler()
	for _, path := range []string{"/render/svg", "/render/pdf"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(scoreBody))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 2 {
		t.Errorf("requests = %d, want 2", hooks.requests)
	}
	want := []response{
		{http.MethodPost, "/render/{format}", http.StatusOK},
		{http.MethodPost, "/render/{format}", http.StatusBadRequest},
	}
	if len(hooks.responses) != len(want) {
		t.Fatalf("responses = %v", hooks.responses)
	}
	for i := range want {
		if hooks.responses[i] != want[i] {
			t.Errorf("response %d = %+v, want %+v", i, hooks.responses[i], want[i])
		}
	}
}
