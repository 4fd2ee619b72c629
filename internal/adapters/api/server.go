package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/github"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/mediator"
	"github.com/andrescamacho/neutron-assistant-go/internal/application/routecalc"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

// UpdateChecker compares the running version with the latest release
type UpdateChecker interface {
	CheckForUpdate(ctx context.Context, current string) (github.UpdateInfo, error)
}

// ServerConfig configures the control API
type ServerConfig struct {
	Address         string
	Version         string
	MetricsPath     string
	MetricsHandler  http.Handler // nil when metrics are disabled
	ShutdownTimeout time.Duration
}

// Server is the daemon's local control API. Every route is a thin
// translation to a mediator request.
type Server struct {
	mediator mediator.Mediator
	updater  UpdateChecker
	cfg      ServerConfig
	logger   *slog.Logger
	router   chi.Router
}

// NewServer creates the control API. updater may be nil.
func NewServer(m mediator.Mediator, updater UpdateChecker, cfg ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{mediator: m, updater: updater, cfg: cfg, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/status", s.handleStatus)
	r.Get("/version", s.handleVersion)
	r.Route("/routes", func(r chi.Router) {
		r.Post("/simple", s.handleSimpleRoute)
		r.Post("/exact", s.handleExactRoute)
	})
	r.Delete("/route", s.handleClearRoute)
	r.Post("/autocopy", s.handleAutoCopy)
	r.Get("/logs", s.handleLogs)
	r.Get("/calculations", s.handleCalculations)
	r.Get("/systems", s.handleSystems)
	r.Get("/ship/coriolis-url", s.handleShipLink)
	r.Get("/update", s.handleUpdate)

	if s.cfg.MetricsHandler != nil {
		path := s.cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, s.cfg.MetricsHandler)
	}
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on an existing listener until ctx is done
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Control API listening", "address", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("control API error: %w", err)
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("control API shutdown: %w", err)
		}
		return <-errChan
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("control request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) send(w http.ResponseWriter, r *http.Request, request mediator.Request, okStatus int) {
	response, err := s.mediator.Send(r.Context(), request)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, okStatus, response)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, &routecalc.GetStatusQuery{}, http.StatusOK)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.cfg.Version})
}

func (s *Server) handleSimpleRoute(w http.ResponseWriter, r *http.Request) {
	var cmd routecalc.CalculateSimpleRouteCommand
	if !s.decode(w, r, &cmd) {
		return
	}
	s.sendCalculation(w, r, &cmd)
}

func (s *Server) handleExactRoute(w http.ResponseWriter, r *http.Request) {
	var cmd routecalc.CalculateExactRouteCommand
	if !s.decode(w, r, &cmd) {
		return
	}
	s.sendCalculation(w, r, &cmd)
}

// sendCalculation answers 202 while the calculation is still running
func (s *Server) sendCalculation(w http.ResponseWriter, r *http.Request, cmd mediator.Request) {
	response, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusOK
	if calc, ok := response.(*routecalc.CalculationResponse); ok {
		switch calc.Status {
		case string(shared.LifecycleStatusPending), string(shared.LifecycleStatusRunning):
			status = http.StatusAccepted
		}
	}
	writeJSON(w, status, response)
}

func (s *Server) handleClearRoute(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, &routecalc.ClearRouteCommand{}, http.StatusOK)
}

func (s *Server) handleAutoCopy(w http.ResponseWriter, r *http.Request) {
	var cmd routecalc.SetAutoCopyCommand
	if !s.decode(w, r, &cmd) {
		return
	}
	s.send(w, r, &cmd, http.StatusOK)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	query := &routecalc.GetActivityLogQuery{}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a number", Type: "validation", Field: "limit"})
			return
		}
		query.Limit = limit
	}
	s.send(w, r, query, http.StatusOK)
}

func (s *Server) handleCalculations(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, &routecalc.ListCalculationsQuery{}, http.StatusOK)
}

func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, &routecalc.SearchSystemsQuery{Query: r.URL.Query().Get("q")}, http.StatusOK)
}

func (s *Server) handleShipLink(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, &routecalc.GetShipLinkQuery{}, http.StatusOK)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.updater == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "update check is not configured", Type: "unavailable"})
		return
	}
	info, err := s.updater.CheckForUpdate(r.Context(), s.cfg.Version)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err), Type: "validation"})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, body := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("control request failed", "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Warn("failed to encode response", "error", err)
	}
}
