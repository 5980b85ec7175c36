package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"uchet/internal/config"
	"uchet/internal/core"
	"uchet/internal/log"
	"uchet/internal/report"
)

// MarkerStore tracks which months already had their report delivered.
type MarkerStore interface {
	MarkerExists(ctx context.Context, year, month int) (bool, error)
	InsertMarkerIfAbsent(ctx context.Context, year, month int) (bool, error)
}

// ReportSource produces the monthly aggregate.
type ReportSource interface {
	MonthReport(ctx context.Context, year, month int) (core.MonthReport, error)
}

// Deliverer pushes a rendered report to one target (message queue,
// spreadsheet).
type Deliverer interface {
	DeliverReport(ctx context.Context, rep core.MonthReport, text string) error
}

// MonthlyProcessor drives the periodic month-end report: once per day
// at ReportHour it checks whether the month containing yesterday still
// needs its report, and runs check → aggregate → render → deliver →
// mark. The (year, month) marker makes delivery at-most-once.
type MonthlyProcessor struct {
	markers    MarkerStore
	reports    ReportSource
	deliverers []Deliverer
	suffix     string
	reportHour int
	logger     *log.Logger

	lastRunDay string // YYYY-MM-DD of the last successful daily check
}

func NewMonthlyProcessor(markers MarkerStore, reports ReportSource, deliverers []Deliverer, currencySuffix string, reportHour int, logger *log.Logger) *MonthlyProcessor {
	return &MonthlyProcessor{
		markers:    markers,
		reports:    reports,
		deliverers: deliverers,
		suffix:     currencySuffix,
		reportHour: reportHour,
		logger:     logger.WithComponent(log.ComponentScheduler),
	}
}

// Run ticks until ctx is done. A failed tick is logged and retried at
// the next boundary; it never terminates the loop.
func (p *MonthlyProcessor) Run(ctx context.Context, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := p.RunTick(ctx, now); err != nil {
				p.logger.ErrorContext(ctx, "Scheduler tick failed", log.FieldError, err)
			}
		}
	}
}

// RunTick performs at most one daily check. Before ReportHour, or when
// today's check already succeeded, it is a no-op. On failure the day is
// not recorded, so the next tick retries.
func (p *MonthlyProcessor) RunTick(ctx context.Context, now time.Time) error {
	if now.Hour() < p.reportHour {
		return nil
	}
	today := now.Format("2006-01-02")
	if p.lastRunDay == today {
		return nil
	}

	yesterday := now.AddDate(0, 0, -1)
	if _, err := p.ProcessMonth(ctx, yesterday.Year(), int(yesterday.Month())); err != nil {
		return err
	}
	p.lastRunDay = today
	return nil
}

// ProcessMonth runs the check-report-mark sequence for one month and
// reports whether a report was actually delivered. A month with no data
// is skipped without writing a marker, so it stays eligible once data
// arrives. Delivery failures abort before the marker write, keeping the
// report retryable.
func (p *MonthlyProcessor) ProcessMonth(ctx context.Context, year, month int) (bool, error) {
	exists, err := p.markers.MarkerExists(ctx, year, month)
	if err != nil {
		return false, fmt.Errorf("check marker %04d-%02d: %w", year, month, err)
	}
	if exists {
		return false, nil
	}

	rep, err := p.reports.MonthReport(ctx, year, month)
	if err != nil {
		if errors.Is(err, report.ErrNoData) {
			p.logger.InfoContext(ctx, "No data for month, skipping",
				log.FieldYear, year, log.FieldMonth, month)
			return false, nil
		}
		return false, fmt.Errorf("aggregate %04d-%02d: %w", year, month, err)
	}

	text := report.RenderMonthly(rep, p.suffix) + "\n" + report.RenderDaily(rep, p.suffix)
	for _, d := range p.deliverers {
		if err := d.DeliverReport(ctx, rep, text); err != nil {
			return false, fmt.Errorf("deliver %04d-%02d: %w", year, month, err)
		}
	}

	inserted, err := p.markers.InsertMarkerIfAbsent(ctx, year, month)
	if err != nil {
		return false, fmt.Errorf("mark %04d-%02d: %w", year, month, err)
	}
	if !inserted {
		p.logger.WarnContext(ctx, "Month was marked concurrently",
			log.FieldYear, year, log.FieldMonth, month)
		return true, nil
	}

	p.logger.InfoContext(ctx, "Monthly report delivered",
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldAmountMinor, rep.BalanceMinor)
	return true, nil
}

// Backfill walks historical months through the same check-report-mark
// sequence. One failing month is logged and does not stop the rest.
func (p *MonthlyProcessor) Backfill(ctx context.Context, months []config.YearMonth) {
	for _, ym := range months {
		delivered, err := p.ProcessMonth(ctx, ym.Year, ym.Month)
		if err != nil {
			p.logger.ErrorContext(ctx, "Backfill month failed",
				log.FieldYear, ym.Year,
				log.FieldMonth, ym.Month,
				log.FieldError, err)
			continue
		}
		if delivered {
			p.logger.InfoContext(ctx, "Backfill month delivered",
				log.FieldYear, ym.Year,
				log.FieldMonth, ym.Month)
		}
	}
}
