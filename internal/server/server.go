// Package server exposes the dashboard as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matheuskafuri/marketpulse/internal/dashboard"
	"github.com/matheuskafuri/marketpulse/internal/logger"
	"github.com/matheuskafuri/marketpulse/internal/metrics"
	"github.com/matheuskafuri/marketpulse/internal/topics"
)

// DefaultRefreshTimeout bounds a reload started by POST /api/refresh.
const DefaultRefreshTimeout = time.Minute

// Server routes API requests to a Dashboard.
type Server struct {
	dash           *dashboard.Dashboard
	log            *logger.Logger
	router         chi.Router
	refreshTimeout time.Duration
}

func New(d *dashboard.Dashboard, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Get()
	}
	s := &Server{dash: d, log: log.With("component", "server"), refreshTimeout: DefaultRefreshTimeout}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CorsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", metrics.Handler().ServeHTTP)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/topics", s.handleTopics)
		r.Get("/feargreed", s.handleFearGreed)
		r.Get("/entities/{ticker}", s.handleEntity)
		r.Post("/refresh", s.handleRefresh)
	})
	s.router = r
	return s
}

// SetRefreshTimeout bounds reloads started through the API. Non-positive
// values are ignored.
func (s *Server) SetRefreshTimeout(d time.Duration) {
	if d > 0 {
		s.refreshTimeout = d
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state, _ := s.dash.State()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "state": state.String()})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.dash.View())
}

func (s *Server) snapshot(w http.ResponseWriter) (dashboard.Snapshot, bool) {
	snap, ok := s.dash.Snapshot()
	if !ok {
		msg := "dashboard not loaded"
		if _, err := s.dash.State(); err != nil {
			msg = err.Error()
		}
		WriteError(w, http.StatusServiceUnavailable, msg)
	}
	return snap, ok
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	stats := snap.Topics
	if alias := r.URL.Query().Get("topic"); alias != "" {
		name, err := topics.ResolveAlias(alias, s.dash.Topics())
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		stats = topics.Filter(stats, name)
	}
	if stats == nil {
		stats = []topics.Stat{}
	}
	WriteJSON(w, http.StatusOK, stats)
}

func (s *Server) handleFearGreed(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, snap.FearGreed)
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	det, err := s.dash.Detail(chi.URLParam(r, "ticker"))
	switch {
	case errors.Is(err, dashboard.ErrUnknownEntity):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, dashboard.ErrNotLoaded):
		WriteError(w, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		WriteError(w, http.StatusInternalServerError, err.Error())
	default:
		WriteJSON(w, http.StatusOK, det)
	}
}

// handleRefresh reloads synchronously: 202 once the new snapshot is in place,
// 409 while another load runs, 502 when the fetch failed. The reload outlives
// the request so a disconnecting client cannot fail the dashboard.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.refreshTimeout)
	defer cancel()
	err := s.dash.Refresh(ctx)
	switch {
	case errors.Is(err, dashboard.ErrRefreshInFlight):
		WriteError(w, http.StatusConflict, err.Error())
	case err != nil:
		WriteError(w, http.StatusBadGateway, err.Error())
	default:
		snap, _ := s.dash.Snapshot()
		WriteJSON(w, http.StatusAccepted, map[string]interface{}{
			"status":       "refreshed",
			"articles":     len(snap.Articles),
			"generated_at": snap.GeneratedAt,
		})
	}
}
