// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST /layout            compute a layout, reply with layout JSON
//	POST /render/{format}   lay out and render one artifact (text, svg, json)
//	GET  /healthz           liveness probe
//
// Both POST routes take the same body:
//
//	{
//	  "table":   {"header": ["Name", "Score"], "rows": [["Alice", "91"]]},
//	  "options": {"width": 320, "auto_fit": true}
//	}
//
// Instead of an inline table the body may name a file with "path", which
// is resolved under the server's root directory.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/sheetgrid/pkg/errors"
	"github.com/matzehuels/sheetgrid/pkg/observability"
	"github.com/matzehuels/sheetgrid/pkg/pipeline"
	"github.com/matzehuels/sheetgrid/pkg/table"
	tableio "github.com/matzehuels/sheetgrid/pkg/table/io"
)

const (
	// HeaderRequestID carries the request ID in both directions.
	HeaderRequestID = "X-Request-ID"

	// HeaderCache reports whether the reply came from cache ("hit" or "miss").
	HeaderCache = "X-Cache"

	// DefaultMaxBodySize caps request bodies.
	DefaultMaxBodySize = 4 << 20

	shutdownTimeout = 10 * time.Second
)

// Server serves layout and render requests through a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	root    string
	maxBody int64
}

// Option configures a Server.
type Option func(*Server)

// WithRoot enables "path" requests, resolved under dir.
func WithRoot(dir string) Option { return func(s *Server) { s.root = dir } }

// WithMaxBodySize sets the request body limit in bytes.
func WithMaxBodySize(n int64) Option { return func(s *Server) { s.maxBody = n } }

// New creates a server. A nil logger falls back to log.Default().
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, maxBody: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/layout", s.handleLayout)
	r.Post("/render/{format}", s.handleRender)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey struct{}

// requestID takes the client's request ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// observe reports requests to the server hooks and logs them.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := RequestID(r.Context())
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), id, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), id, r.Method, route, status, elapsed)
		s.logger.Debug("request", "id", id, "method", r.Method, "route", route, "status", status, "duration", elapsed)
	})
}

// =============================================================================
// Handlers
// =============================================================================

// Request is the body of the layout and render routes.
type Request struct {
	Table   *tableio.Document `json:"table,omitempty"`
	Path    string            `json:"path,omitempty"`
	Options pipeline.Options  `json:"options"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	t, opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), t, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := tableio.MarshalLayout(l)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	w.Header().Set(HeaderCache, cacheStatus(hit))
	writeBody(w, "application/json", data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := errors.ValidateFormat(chi.URLParam(r, "format"), pipeline.ValidFormats)
	if err != nil {
		writeError(w, err)
		return
	}
	t, opts, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), t, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set(HeaderCache, cacheStatus(result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit))
	writeBody(w, contentType(format), result.Artifacts[format])
}

// decode reads the request body and resolves its table.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (table.Table, pipeline.Options, error) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return table.Table{}, req.Options, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	req.Options.Logger = s.logger.With("request_id", RequestID(r.Context()))

	switch {
	case req.Table != nil && req.Path != "":
		return table.Table{}, req.Options, errors.New(errors.ErrCodeInvalidInput, "give either table or path, not both")
	case req.Table != nil:
		t, err := req.Table.Table()
		return t, req.Options, err
	case req.Path != "":
		t, err := s.readPath(req.Path)
		return t, req.Options, err
	default:
		return table.Table{}, req.Options, errors.New(errors.ErrCodeInvalidInput, "request has no table")
	}
}

func (s *Server) readPath(path string) (table.Table, error) {
	if s.root == "" {
		return table.Table{}, errors.New(errors.ErrCodeUnsupported, "path requests are disabled")
	}
	if err := errors.ValidatePath(path); err != nil {
		return table.Table{}, err
	}
	return tableio.ReadFile(filepath.Join(s.root, filepath.FromSlash(path)))
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorBody{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBody(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
