package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"uchet/internal/core"
	"uchet/internal/report"
)

// handleSummary returns the month aggregate as JSON.
// GET /api/summary?year=2025&month=4
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.monthReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		slog.ErrorContext(r.Context(), "Encode summary failed", "error", err)
	}
}

// handleSummaryText returns the rendered plain-text report.
// GET /api/summary/text?year=2025&month=4
func (s *Server) handleSummaryText(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.monthReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	text := report.RenderMonthly(rep, s.currencySuffix) + "\n" + report.RenderDaily(rep, s.currencySuffix)
	_, _ = w.Write([]byte(text))
}

// monthReport resolves query parameters and fetches the (possibly
// cached) aggregate. It writes the error response itself and reports
// success through the bool.
func (s *Server) monthReport(w http.ResponseWriter, r *http.Request) (core.MonthReport, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return core.MonthReport{}, false
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return core.MonthReport{}, false
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return core.MonthReport{}, false
		}
		month = m
	}
	if !core.ValidMonth(month) {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return core.MonthReport{}, false
	}

	rep, err := s.getReport(r.Context(), year, month)
	switch {
	case errors.Is(err, report.ErrNoData):
		http.Error(w, "no data for month", http.StatusNotFound)
		return core.MonthReport{}, false
	case err != nil:
		slog.ErrorContext(r.Context(), "Month report error", "error", err, "year", year, "month", month)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return core.MonthReport{}, false
	}
	return rep, true
}

func (s *Server) getReport(ctx context.Context, year, month int) (core.MonthReport, error) {
	key := strconv.Itoa(year) + "-" + strconv.Itoa(month)
	if rep, found := s.reportCache.Get(key); found {
		slog.DebugContext(ctx, "Report cache hit", "year", year, "month", month)
		return rep, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	rep, err := s.reports.MonthReport(cctx, year, month)
	if err != nil {
		return core.MonthReport{}, err
	}
	s.reportCache.Set(key, rep)
	return rep, nil
}
