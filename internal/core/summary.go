package core

// CategoryAmount is an amount aggregated under a category name.
type CategoryAmount struct {
	Name        string `json:"name"`
	AmountMinor int64  `json:"amount_minor"`
}

// DayTotal holds one day's income and primary-only expense sums.
type DayTotal struct {
	Date         string `json:"date"` // YYYY-MM-DD
	IncomeMinor  int64  `json:"income_minor"`
	ExpenseMinor int64  `json:"expense_minor"`
}

// CategoryEntry is one expense occurrence inside a category drill-down.
type CategoryEntry struct {
	Date        string `json:"date"`
	AmountMinor int64  `json:"amount_minor"`
	Comment     string `json:"comment"`
}

// MonthReport is the aggregate result for one calendar month. All sums
// are in minor units; conversion to major units happens only at the
// rendering boundary.
type MonthReport struct {
	Year         int              `json:"year"`
	Month        int              `json:"month"`
	IncomeMinor  int64            `json:"income_minor"`
	ExpenseMinor int64            `json:"expense_minor"` // primary-only, de-duplicated
	BalanceMinor int64            `json:"balance_minor"`
	ByCategory   []CategoryAmount `json:"by_category"` // all tag occurrences
	ByDay        []DayTotal       `json:"by_day"`
}

// Empty reports whether the month carries no data at all.
func (r MonthReport) Empty() bool {
	return r.IncomeMinor == 0 && r.ExpenseMinor == 0 && len(r.ByCategory) == 0
}
