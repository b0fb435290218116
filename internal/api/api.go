// Package api exposes request admission and operational endpoints over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parkstar12/newstoss/internal/kisrequest"
	"github.com/parkstar12/newstoss/pkg/httpserver"
	"github.com/parkstar12/newstoss/pkg/logger"
)

// Publisher admits requests onto the request stream.
type Publisher interface {
	RequestStock(ctx context.Context, code string) (bool, error)
	RequestFx(ctx context.Context, fxType, fxCode string) (string, error)
}

// Option configures the router.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	checks   []httpserver.Check
	timeout  time.Duration
}

// WithLogger sets the logger for handlers.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics exposes g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(o *options) { o.gatherer = g }
}

// WithReadinessChecks adds dependencies probed by /readyz.
func WithReadinessChecks(checks ...httpserver.Check) Option {
	return func(o *options) { o.checks = append(o.checks, checks...) }
}

// WithRequestTimeout bounds each admission request.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// NewRouter builds the HTTP handler.
func NewRouter(p Publisher, opts ...Option) http.Handler {
	o := &options{logger: slog.Default(), timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(o)
	}
	h := &handlers{publisher: p, logger: o.logger.With(logger.Component("api"))}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(o.logger, o.checks...))
	if o.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/requests", func(r chi.Router) {
		r.Use(middleware.Timeout(o.timeout))
		r.Post("/stock/{code}", h.requestStock)
		r.Post("/fx/{fxType}/{fxCode}", h.requestFx)
	})
	return r
}

type handlers struct {
	publisher Publisher
	logger    *slog.Logger
}

type stockResponse struct {
	Enqueued bool `json:"enqueued"`
}

type fxResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) requestStock(w http.ResponseWriter, r *http.Request) {
	ok, err := h.publisher.RequestStock(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if ok {
		status = http.StatusAccepted
	}
	writeJSON(w, status, stockResponse{Enqueued: ok})
}

func (h *handlers) requestFx(w http.ResponseWriter, r *http.Request) {
	id, err := h.publisher.RequestFx(r.Context(), chi.URLParam(r, "fxType"), chi.URLParam(r, "fxCode"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, fxResponse{ID: id})
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, kisrequest.ErrEmptyStockCode) || errors.Is(err, kisrequest.ErrEmptyFxPair) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.logger.ErrorContext(r.Context(), "request admission failed", logger.Error(err))
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "request could not be enqueued"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
