package core

import (
	"errors"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// MinorUnitScale is the number of minor currency units in one major unit.
const MinorUnitScale = 100

type (
	// Kind distinguishes income from expense records.
	Kind string

	// Date is a calendar date. The time-of-day part is always midnight UTC.
	Date struct {
		time.Time
	}

	// Money is an exact amount in minor currency units (kopecks).
	Money struct {
		Minor int64
	}

	// TransactionRecord is one parsed entry of a message block. A single
	// expense line with N category tags expands into N records sharing
	// date, amount and comment; only the first one is Primary.
	TransactionRecord struct {
		ID       int64
		Date     Date
		Kind     Kind
		Amount   Money
		Category string // set only for Expense
		Comment  string
		Primary  bool
	}
)

var (
	ErrInvalidKind    = errors.New("invalid record kind")
	ErrNegativeAmount = errors.New("negative amount")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrEmptyCategory  = errors.New("empty expense category")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidMonth   = errors.New("invalid month")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a wall-clock time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string { return d.Time.Format("2006-01-02") }

// Validate reports whether the date is usable.
func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthBounds returns the half-open range [first of month, first of next
// month). December wraps into January of the next year.
func MonthBounds(year, month int) (Date, Date) {
	start := NewDate(year, month, 1)
	ey, em := year, month+1
	if month == 12 {
		ey, em = year+1, 1
	}
	return start, NewDate(ey, em, 1)
}

// ValidMonth reports whether m is a calendar month number.
func ValidMonth(m int) bool { return m >= 1 && m <= 12 }

// Major returns the amount in major units for display purposes only.
// All arithmetic stays in minor units.
func (m Money) Major() float64 {
	return float64(m.Minor) / MinorUnitScale
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Minor: m.Minor + o.Minor}
}

// Validate rejects negative amounts. Sign is carried by Kind, never by
// the stored value.
func (m Money) Validate() error {
	if m.Minor < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Validate checks the record invariants before persistence.
func (r TransactionRecord) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	switch r.Kind {
	case Income, Expense:
	default:
		return ErrInvalidKind
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if r.Kind == Expense && r.Category == "" {
		return ErrEmptyCategory
	}
	if r.Kind == Income && !r.Primary {
		return errors.New("income record must be primary")
	}
	return nil
}
