package core

import "testing"

func TestMonthBounds(t *testing.T) {
	cases := []struct {
		year, month int
		start, end  string
	}{
		{2025, 4, "2025-04-01", "2025-05-01"},
		{2025, 12, "2025-12-01", "2026-01-01"},
		{2024, 1, "2024-01-01", "2024-02-01"},
	}
	for _, tc := range cases {
		start, end := MonthBounds(tc.year, tc.month)
		if start.ISO() != tc.start || end.ISO() != tc.end {
			t.Fatalf("MonthBounds(%d, %d) = [%s, %s), expected [%s, %s)",
				tc.year, tc.month, start.ISO(), end.ISO(), tc.start, tc.end)
		}
	}
}

func TestTransactionRecordValidate(t *testing.T) {
	valid := TransactionRecord{
		Date:     NewDate(2025, 4, 7),
		Kind:     Expense,
		Amount:   Money{Minor: 25000},
		Category: "еда",
		Comment:  "хлеб",
		Primary:  true,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*TransactionRecord)
	}{
		{"zero date", func(r *TransactionRecord) { r.Date = Date{} }},
		{"bad kind", func(r *TransactionRecord) { r.Kind = "transfer" }},
		{"negative amount", func(r *TransactionRecord) { r.Amount.Minor = -1 }},
		{"expense without category", func(r *TransactionRecord) { r.Category = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mutate(&rec)
			if err := rec.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	income := TransactionRecord{
		Date:    NewDate(2025, 4, 7),
		Kind:    Income,
		Amount:  Money{Minor: 5000000},
		Comment: "зарплата",
		Primary: true,
	}
	if err := income.Validate(); err != nil {
		t.Fatalf("valid income rejected: %v", err)
	}
	income.Primary = false
	if err := income.Validate(); err == nil {
		t.Fatal("non-primary income must be rejected")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Minor: 0}).Validate(); err != nil {
		t.Fatalf("zero amount must be valid: %v", err)
	}
	if err := (Money{Minor: -100}).Validate(); err == nil {
		t.Fatal("negative amount must be rejected")
	}
}
