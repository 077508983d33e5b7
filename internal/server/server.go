// Package server implements the MNRL validation service behind "mnrl serve".
//
// Routes:
//
//	POST /v1/validate   validate a document, respond with a summary or the first error
//	POST /v1/normalize  respond with the canonical serialization of a document
//	POST /v1/render     respond with a node-link diagram (?format=&direction=&ports=&detailed=)
//	GET  /healthz       liveness and build info
//	GET  /metrics       Prometheus exposition, when a handler is configured
//
// Every request body is one MNRL document. Documents are loaded independently
// per request; the only shared state is the pipeline runner and its cache.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mnrl/pkg/buildinfo"
	merrors "github.com/matzehuels/mnrl/pkg/errors"
	"github.com/matzehuels/mnrl/pkg/observability"
	"github.com/matzehuels/mnrl/pkg/pipeline"
	"github.com/matzehuels/mnrl/pkg/schema"
)

// DefaultMaxBodyBytes bounds request bodies when Config.MaxBodyBytes is unset.
const DefaultMaxBodyBytes = 8 << 20

// Config configures a Server.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Metrics serves GET /metrics when non-nil.
	Metrics http.Handler
}

// Server serves the validation API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// New creates a server that processes documents with runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger, cfg: cfg}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/normalize", s.handleNormalize)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Run serves on cfg.Addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// ValidateResponse is the body of a successful POST /v1/validate.
type ValidateResponse struct {
	Valid   bool             `json:"valid"`
	Summary pipeline.Summary `json:"summary"`
}

// ErrorBody describes a failed document.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Subject string `json:"subject,omitempty"`
	// Keyword is the violated schema keyword for SCHEMA_VIOLATION.
	Keyword string `json:"keyword,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Valid bool      `json:"valid"`
	Error ErrorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	info := buildinfo.Get()
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
		"schema":  info.SchemaVersion,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	net, err := s.runner.Load(r.Context(), source(r), data)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ValidateResponse{Valid: true, Summary: pipeline.Summarize(net)})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	out, hit, err := s.runner.NormalizeWithCacheInfo(r.Context(), source(r), data, false)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Format:    q.Get("format"),
		Direction: q.Get("direction"),
		Ports:     flag(q.Get("ports")),
		Detailed:  flag(q.Get("detailed")),
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.respondError(w, err)
		return
	}

	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	out, hit, err := s.runner.RenderWithCacheInfo(r.Context(), source(r), data, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.Header().Set("Content-Type", pipeline.ContentType(opts.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// readBody reads the request body up to the configured limit. On failure it
// writes the response and reports false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorBody{
				Code:    string(merrors.ErrCodeInvalidInput),
				Message: "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
			}})
			return nil, false
		}
		s.respondError(w, merrors.Wrap(merrors.ErrCodeInvalidInput, err, "read body"))
		return nil, false
	}
	return data, true
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	body := ErrorBody{
		Code:    string(merrors.GetCode(err)),
		Message: merrors.UserMessage(err),
		Subject: merrors.GetSubject(err),
	}
	if body.Code == "" {
		body.Code = string(merrors.ErrCodeInternal)
	}
	var v *schema.Violation
	if errors.As(err, &v) {
		body.Keyword = v.Keyword
		body.Message = v.Error()
	}
	respondJSON(w, status, ErrorResponse{Error: body})
}

// statusFor maps error codes to HTTP status codes. Malformed or unsupported
// requests are 400; well-formed documents that fail validation are 422.
func statusFor(err error) int {
	switch merrors.GetCode(err) {
	case merrors.ErrCodeInvalidInput, merrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case merrors.ErrCodeSchemaViolation,
		merrors.ErrCodeUnknownNodeType,
		merrors.ErrCodeMissingField,
		merrors.ErrCodeInvalidEnumValue,
		merrors.ErrCodeInvalidAttribute,
		merrors.ErrCodeInvalidPort,
		merrors.ErrCodeDuplicatePortID,
		merrors.ErrCodeDuplicateID,
		merrors.ErrCodeUnknownID,
		merrors.ErrCodeUnknownPort:
		return http.StatusUnprocessableEntity
	case merrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// observe reports each request to the registered HTTP hooks. Responses are
// labeled with the matched route pattern, known only after routing.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// source names a request body in logs and metrics.
func source(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return "request:" + id
	}
	return "request"
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func flag(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}
