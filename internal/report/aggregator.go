// Package report computes monthly aggregates from stored records and
// renders them as text. All sums are in integer minor units; only the
// renderer converts to major units.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"uchet/internal/core"
)

// ErrNoData means the month has no income and no expense records.
var ErrNoData = errors.New("no data for month")

// RecordSource is the narrow slice of the store the aggregator needs.
type RecordSource interface {
	QueryRange(ctx context.Context, kind core.Kind, primaryOnly bool, start, end core.Date) ([]core.TransactionRecord, error)
}

type Aggregator struct {
	src RecordSource
}

func NewAggregator(src RecordSource) *Aggregator {
	return &Aggregator{src: src}
}

// MonthlyIncome sums all income records of the month.
func (a *Aggregator) MonthlyIncome(ctx context.Context, year, month int) (int64, error) {
	start, end := core.MonthBounds(year, month)
	records, err := a.src.QueryRange(ctx, core.Income, false, start, end)
	if err != nil {
		return 0, fmt.Errorf("query income: %w", err)
	}
	var sum int64
	for _, rec := range records {
		sum += rec.Amount.Minor
	}
	return sum, nil
}

// MonthlyExpenseTotal sums primary expense records only. A multi-tag
// expense line counts exactly once here, regardless of how many
// categories it was split into.
func (a *Aggregator) MonthlyExpenseTotal(ctx context.Context, year, month int) (int64, error) {
	start, end := core.MonthBounds(year, month)
	records, err := a.src.QueryRange(ctx, core.Expense, true, start, end)
	if err != nil {
		return 0, fmt.Errorf("query primary expenses: %w", err)
	}
	var sum int64
	for _, rec := range records {
		sum += rec.Amount.Minor
	}
	return sum, nil
}

// CategoryBreakdown sums expenses per category over ALL records,
// ignoring the primary flag: every tag contributes to its own bucket
// even when it does not count toward the overall total. The asymmetry
// against MonthlyExpenseTotal is deliberate.
func (a *Aggregator) CategoryBreakdown(ctx context.Context, year, month int) ([]core.CategoryAmount, error) {
	start, end := core.MonthBounds(year, month)
	records, err := a.src.QueryRange(ctx, core.Expense, false, start, end)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	sums := make(map[string]int64)
	for _, rec := range records {
		sums[rec.Category] += rec.Amount.Minor
	}
	out := make([]core.CategoryAmount, 0, len(sums))
	for name, minor := range sums {
		out = append(out, core.CategoryAmount{Name: name, AmountMinor: minor})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AmountMinor != out[j].AmountMinor {
			return out[i].AmountMinor > out[j].AmountMinor
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// DailyBreakdown returns per-day income and primary-only expense sums
// for the month, ordered by date ascending. Days without records are
// omitted.
func (a *Aggregator) DailyBreakdown(ctx context.Context, year, month int) ([]core.DayTotal, error) {
	start, end := core.MonthBounds(year, month)
	incomes, err := a.src.QueryRange(ctx, core.Income, false, start, end)
	if err != nil {
		return nil, fmt.Errorf("query income: %w", err)
	}
	expenses, err := a.src.QueryRange(ctx, core.Expense, true, start, end)
	if err != nil {
		return nil, fmt.Errorf("query primary expenses: %w", err)
	}

	type daySum struct{ income, expense int64 }
	days := make(map[string]*daySum)
	get := func(date string) *daySum {
		if d, ok := days[date]; ok {
			return d
		}
		d := &daySum{}
		days[date] = d
		return d
	}
	for _, rec := range incomes {
		get(rec.Date.ISO()).income += rec.Amount.Minor
	}
	for _, rec := range expenses {
		get(rec.Date.ISO()).expense += rec.Amount.Minor
	}

	out := make([]core.DayTotal, 0, len(days))
	for date, d := range days {
		out = append(out, core.DayTotal{Date: date, IncomeMinor: d.income, ExpenseMinor: d.expense})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// CategoryDetail lists all expense records of the month grouped by
// category, ordered by date, for per-category drill-down views.
func (a *Aggregator) CategoryDetail(ctx context.Context, year, month int) (map[string][]core.CategoryEntry, error) {
	start, end := core.MonthBounds(year, month)
	records, err := a.src.QueryRange(ctx, core.Expense, false, start, end)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	out := make(map[string][]core.CategoryEntry)
	for _, rec := range records {
		out[rec.Category] = append(out[rec.Category], core.CategoryEntry{
			Date:        rec.Date.ISO(),
			AmountMinor: rec.Amount.Minor,
			Comment:     rec.Comment,
		})
	}
	return out, nil
}

// MonthReport composes the full aggregate for one month. Returns
// ErrNoData for a month with no records at all.
func (a *Aggregator) MonthReport(ctx context.Context, year, month int) (core.MonthReport, error) {
	if !core.ValidMonth(month) {
		return core.MonthReport{}, core.ErrInvalidMonth
	}
	income, err := a.MonthlyIncome(ctx, year, month)
	if err != nil {
		return core.MonthReport{}, err
	}
	expense, err := a.MonthlyExpenseTotal(ctx, year, month)
	if err != nil {
		return core.MonthReport{}, err
	}
	byCategory, err := a.CategoryBreakdown(ctx, year, month)
	if err != nil {
		return core.MonthReport{}, err
	}
	byDay, err := a.DailyBreakdown(ctx, year, month)
	if err != nil {
		return core.MonthReport{}, err
	}

	rep := core.MonthReport{
		Year:         year,
		Month:        month,
		IncomeMinor:  income,
		ExpenseMinor: expense,
		BalanceMinor: income - expense,
		ByCategory:   byCategory,
		ByDay:        byDay,
	}
	if rep.Empty() {
		return core.MonthReport{}, ErrNoData
	}
	return rep, nil
}
