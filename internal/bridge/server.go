// Package bridge serves the open_dashboard message contract over local HTTP.
//
// A content script asks for the dashboard with
//
//	POST /message {"action": "open_dashboard"}
//
// and receives {"success": true, "tabId": <int|null>} once the dashboard was
// opened, or {"success": false, "error": "<message>"} when that failed.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ActionOpenDashboard is the only message action the bridge handles.
const ActionOpenDashboard = "open_dashboard"

// maxMessageBytes bounds the size of a message body.
const maxMessageBytes = 64 << 10

// ErrUnsupportedAction is reported for messages with any other action.
var ErrUnsupportedAction = errors.New("unsupported action")

// Config configures a bridge server.
type Config struct {
	Addr            string
	DashboardURL    string
	ShutdownTimeout time.Duration
}

type message struct {
	Action string `json:"action"`
}

type openResponse struct {
	Success bool `json:"success"`
	TabID   *int `json:"tabId"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// NewHandler returns the bridge routes wrapped in logging and metrics
// middleware.
func NewHandler(dashboardURL string, opener Opener, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(RequestLogger(logger), Metrics())

	h := &handler{dashboardURL: dashboardURL, opener: opener, logger: logger}

	router.Post("/message", h.message)
	router.Get("/health/live", h.healthLive)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

type handler struct {
	dashboardURL string
	opener       Opener
	logger       *slog.Logger
}

func (h *handler) message(w http.ResponseWriter, r *http.Request) {
	var msg message

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&msg)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid message: " + err.Error()})

		return
	}

	if msg.Action != ActionOpenDashboard {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrUnsupportedAction.Error()})

		return
	}

	tabID, err := h.opener.Open(r.Context(), h.dashboardURL)
	if err != nil {
		dashboardOpensTotal.WithLabelValues("error").Inc()
		h.logger.Warn("open dashboard failed",
			slog.String("url", h.dashboardURL),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})

		return
	}

	dashboardOpensTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, openResponse{Success: true, TabID: tabID})
}

func (h *handler) healthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "uvd-bridge",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Server is the bridge HTTP server.
type Server struct {
	httpServer      *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New creates a bridge server for cfg.
func New(cfg Config, opener Opener, logger *slog.Logger) *Server {
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewHandler(cfg.DashboardURL, opener, logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger:          logger,
		shutdownTimeout: timeout,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("bridge listening", slog.String("addr", ln.Addr().String()))

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("bridge shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("bridge server: %w", err)
		}

		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("bridge shutdown: %w", err)
	}

	s.logger.Info("bridge stopped")

	return nil
}
