// Package parse turns free-text message blocks into transaction records.
//
// A block is a date header line followed by body lines, one entry per
// line. The grammar is forgiving: whitespace variants, locale date
// forms and running-subtotal artifacts from chat transcripts are all
// handled here so the rest of the system only sees structured records.
package parse

import (
	"errors"
	"strings"
	"time"

	"uchet/internal/core"
	"uchet/internal/log"
)

// ErrNoDateHeader means the first non-empty line of a block is not a
// recognizable date. The whole block is rejected; no records are kept.
var ErrNoDateHeader = errors.New("no date header")

const (
	// DefaultMinusChars covers the hyphen and the three common Unicode
	// dash variants that chat clients substitute for it.
	DefaultMinusChars = "-−–—"
	// DefaultCurrencySuffix is the optional marker after amounts.
	DefaultCurrencySuffix = "р"
	// DefaultFallbackCategory receives expenses with missing or
	// unconfigured tags.
	DefaultFallbackCategory = "другое"
)

// Truncation limits for diagnostic log entries.
const (
	headerLogLimit = 90
	lineLogLimit   = 80
)

// Options configures a Parser.
type Options struct {
	ValidCategories  []string // case-insensitive closed set
	FallbackCategory string
	MinusChars       string
	CurrencySuffix   string
}

// Parser converts one message block into records. It is safe for
// concurrent use; all state is immutable after construction.
type Parser struct {
	cls      *Classifier
	valid    map[string]struct{}
	fallback string
	logger   *log.Logger
}

// New builds a Parser. Zero-value option fields fall back to the
// defaults above. Unparseable input is reported through logger as
// diagnostics, never to the user.
func New(opts Options, logger *log.Logger) *Parser {
	minus := opts.MinusChars
	if minus == "" {
		minus = DefaultMinusChars
	}
	suffix := opts.CurrencySuffix
	if suffix == "" {
		suffix = DefaultCurrencySuffix
	}
	fallback := strings.ToLower(strings.TrimSpace(opts.FallbackCategory))
	if fallback == "" {
		fallback = DefaultFallbackCategory
	}
	valid := make(map[string]struct{}, len(opts.ValidCategories)+1)
	for _, c := range opts.ValidCategories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			valid[c] = struct{}{}
		}
	}
	valid[fallback] = struct{}{}

	return &Parser{
		cls:      NewClassifier(minus, suffix),
		valid:    valid,
		fallback: fallback,
		logger:   logger.WithComponent(log.ComponentParser),
	}
}

// ParseBlock parses a whole message. ref supplies the year for date
// headers that omit it. On a missing or invalid date header it returns
// ErrNoDateHeader and no records: the block is rejected atomically.
// Body lines that fail to parse are logged and skipped without
// invalidating the rest of the block.
func (p *Parser) ParseBlock(text string, ref time.Time) (core.Date, []core.TransactionRecord, error) {
	var lines []string
	for _, ln := range strings.Split(CleanText(text), "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, strings.TrimSpace(ln))
		}
	}
	if len(lines) == 0 {
		return core.Date{}, nil, ErrNoDateHeader
	}

	date, ok := ExtractDate(lines[0], ref)
	if !ok {
		p.logger.Info("no date header, block rejected", log.FieldLine, truncate(lines[0], headerLogLimit))
		return core.Date{}, nil, ErrNoDateHeader
	}

	var records []core.TransactionRecord
	for _, ln := range lines[1:] {
		m := p.cls.Classify(ln)
		switch m.Class {
		case ClassDiscard:
			continue

		case ClassIncome:
			amount, err := core.ParseAmountMinor(m.AmountRaw)
			if err != nil {
				p.logUnparsed(date, ln)
				continue
			}
			records = append(records, core.TransactionRecord{
				Date:    date,
				Kind:    core.Income,
				Amount:  core.Money{Minor: amount},
				Comment: m.Comment,
				Primary: true,
			})

		case ClassExpense:
			amount, err := core.ParseAmountMinor(m.AmountRaw)
			if err != nil {
				p.logUnparsed(date, ln)
				continue
			}
			records = append(records, p.splitCategories(date, amount, m)...)

		default:
			p.logUnparsed(date, ln)
		}
	}
	return date, records, nil
}

// splitCategories expands one expense line into one record per bracket
// tag. Tags are lowercased and trimmed; unknown tags remap to the
// fallback category. Exactly the first record is Primary so the expense
// counts once toward the monthly total while every tag still feeds its
// own category breakdown.
func (p *Parser) splitCategories(date core.Date, amount int64, m Match) []core.TransactionRecord {
	tags := m.Tags
	if len(tags) == 0 {
		tags = []string{p.fallback}
	}
	records := make([]core.TransactionRecord, 0, len(tags))
	for i, tag := range tags {
		cat := strings.ToLower(strings.TrimSpace(tag))
		if _, ok := p.valid[cat]; !ok {
			cat = p.fallback
		}
		records = append(records, core.TransactionRecord{
			Date:     date,
			Kind:     core.Expense,
			Amount:   core.Money{Minor: amount},
			Category: cat,
			Comment:  m.Comment,
			Primary:  i == 0,
		})
	}
	return records
}

func (p *Parser) logUnparsed(date core.Date, line string) {
	p.logger.Info("unparsed line",
		log.FieldDate, date.ISO(),
		log.FieldLine, truncate(line, lineLogLimit))
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
