package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/logging"
)

// DefaultHistoryLimit bounds /api/history when no limit is requested
const DefaultHistoryLimit = 50

// DashboardServer serves one score result over HTTP
type DashboardServer struct {
	result    *domain.ScoreResult
	project   string
	history   domain.HistoryStore
	formatter *OutputFormatterImpl
	logger    *slog.Logger
	mux       *http.ServeMux
}

// NewDashboardServer creates a dashboard for result. history may be nil.
func NewDashboardServer(result *domain.ScoreResult, project string, history domain.HistoryStore, logger *slog.Logger) *DashboardServer {
	s := &DashboardServer{
		result:    result,
		project:   project,
		history:   history,
		formatter: NewOutputFormatter(),
		logger:    logging.OrDiscard(logger),
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleReport)
	s.mux.HandleFunc("GET /data.json", s.handleData)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)

	return s
}

// Handler returns the routed handler with request logging
func (s *DashboardServer) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Start listens on addr until ctx is cancelled, then shuts down gracefully
func (s *DashboardServer) Start(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve handles connections from listener until ctx is cancelled
func (s *DashboardServer) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "url", "http://"+listener.Addr().String())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dashboard server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *DashboardServer) handleReport(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := s.formatter.WriteHTML(s.result, &buf); err != nil {
		s.logger.Error("failed to render report", "error", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *DashboardServer) handleData(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, NewJSONReport(s.result.Score))
}

func (s *DashboardServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeJSON(w, []domain.HistoryEntry{})
		return
	}

	limit := DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.history.List(r.Context(), s.project, limit)
	if err != nil {
		s.logger.Error("failed to list history", "project", s.project, "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, entries)
}

func (s *DashboardServer) writeJSON(w http.ResponseWriter, v interface{}) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *DashboardServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
