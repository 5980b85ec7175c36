// Package http serves the on-demand report API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"uchet/internal/cache"
	"uchet/internal/core"
)

// ReportSource produces monthly aggregates for the API.
type ReportSource interface {
	MonthReport(ctx context.Context, year, month int) (core.MonthReport, error)
}

type Server struct {
	http.Server
	reports        ReportSource
	currencySuffix string

	reportCache *cache.LRU[core.MonthReport]

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, reports ReportSource, currencySuffix string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		reports:        reports,
		currencySuffix: currencySuffix,
		reportCache:    cache.New[core.MonthReport](100, 5*time.Minute),
		stopCleanup:    make(chan struct{}),
	}
	go s.cacheCleanupLoop()

	mux.HandleFunc("/api/summary", s.withRequestLog(s.handleSummary))
	mux.HandleFunc("/api/summary/text", s.withRequestLog(s.handleSummaryText))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	return s
}

func (s *Server) cacheCleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.reportCache.CleanExpired(); n > 0 {
				slog.Debug("Report cache cleanup", "entries_removed", n)
			}
		case <-s.stopCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withRequestLog adds basic hardening headers and request logging.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(r.Context(), "Request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
