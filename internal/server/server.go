package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/dashboard"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/generator"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/overlay"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// PageRenderer writes the dashboard page.
type PageRenderer interface {
	RenderPage(w io.Writer, ep generator.Endpoints) error
}

// Server exposes the dashboard page, its JSON API and the health, readiness
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	ready      ReadinessChecker
	views      *views
	page       PageRenderer
	logger     *slog.Logger
}

type outlineResponse struct {
	Visible bool           `json:"visible"`
	Layer   *overlay.Layer `json:"layer,omitempty"`
}

// NewServer creates the dashboard HTTP server. open is called once per
// browser to create its view.
func NewServer(addr string, ready ReadinessChecker, open func() View, page PageRenderer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      otelhttp.NewHandler(mux, "dashboard"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		ready:  ready,
		views:  newViews(open, clockwork.NewRealClock()),
		page:   page,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /api/outline", s.handleOutline)
	mux.HandleFunc("POST /api/overlays/{category}", s.handleOverlay)
	mux.HandleFunc("GET /api/canvas", s.handleCanvas)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on ln. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http server starting", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	ep := generator.ServerEndpoints
	ep.ViewID = s.views.openNew()

	var buf bytes.Buffer
	if err := s.page.RenderPage(&buf, ep); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	layer, err := s.views.forRequest(w, r).ToggleOutline(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outlineResponse{Visible: layer != nil, Layer: layer})
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	cat, err := dashboard.ParseCategory(r.PathValue("category"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	pos := dashboard.DefaultPosition(cat)
	if raw := r.URL.Query().Get("position"); raw != "" {
		pos, err = strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "position must be an integer"})
			return
		}
	}

	layer, err := s.views.forRequest(w, r).Show(r.Context(), cat, pos)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layer)
}

func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.views.forRequest(w, r).State())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrUnknownCategory):
		return http.StatusNotFound
	case errors.Is(err, weather.ErrSliderPosition):
		return http.StatusBadRequest
	case errors.Is(err, overlay.ErrSuperseded):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
