package parse

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"uchet/internal/core"
	"uchet/internal/log"
)

func testParser(t *testing.T, categories ...string) (*Parser, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.New(log.Config{Handler: slog.NewTextHandler(&buf, nil)})
	p := New(Options{ValidCategories: categories}, logger)
	return p, &buf
}

var ref = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

func TestParseBlockMultiCategory(t *testing.T) {
	p, _ := testParser(t, "еда", "проезд")

	text := "7 апреля 2025:\n-250р хлеб [еда]\n-300р такси [еда][проезд]"
	date, records, err := p.ParseBlock(text, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date.ISO() != "2025-04-07" {
		t.Fatalf("date = %s, expected 2025-04-07", date.ISO())
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}

	expect := []struct {
		comment  string
		category string
		minor    int64
		primary  bool
	}{
		{"хлеб", "еда", 25000, true},
		{"такси", "еда", 30000, true},
		{"такси", "проезд", 30000, false},
	}
	for i, e := range expect {
		rec := records[i]
		if rec.Kind != core.Expense {
			t.Errorf("record %d: kind = %s, expected expense", i, rec.Kind)
		}
		if rec.Comment != e.comment || rec.Category != e.category ||
			rec.Amount.Minor != e.minor || rec.Primary != e.primary {
			t.Errorf("record %d = %+v, expected %+v", i, rec, e)
		}
		if rec.Date.ISO() != "2025-04-07" {
			t.Errorf("record %d: date = %s", i, rec.Date.ISO())
		}
	}
}

func TestParseBlockIncomeAndDiscards(t *testing.T) {
	p, _ := testParser(t, "еда")

	text := strings.Join([]string{
		"07.04.2025",
		"+50 000р зарплата",
		"-250р хлеб [еда]",
		"= 49 750р", // running subtotal, discarded
		"49 750р",   // bare total, discarded
		"",
	}, "\n")

	_, records, err := p.ParseBlock(text, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}
	if records[0].Kind != core.Income || records[0].Amount.Minor != 5000000 || !records[0].Primary {
		t.Fatalf("income record = %+v", records[0])
	}
	if records[0].Comment != "зарплата" {
		t.Fatalf("income comment = %q", records[0].Comment)
	}
	if records[1].Kind != core.Expense || records[1].Amount.Minor != 25000 {
		t.Fatalf("expense record = %+v", records[1])
	}
}

func TestParseBlockNoDateHeader(t *testing.T) {
	p, buf := testParser(t)

	_, records, err := p.ParseBlock("hello world\n-250р хлеб [еда]", ref)
	if err != ErrNoDateHeader {
		t.Fatalf("expected ErrNoDateHeader, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected zero records, got %d", len(records))
	}
	if !strings.Contains(buf.String(), "no date header") {
		t.Fatalf("expected diagnostic log entry, got %q", buf.String())
	}

	// Same input again: same outcome, one more log entry.
	before := strings.Count(buf.String(), "no date header")
	_, records, err = p.ParseBlock("hello world\n-250р хлеб [еда]", ref)
	if err != ErrNoDateHeader || len(records) != 0 {
		t.Fatalf("second call not idempotent: err=%v records=%d", err, len(records))
	}
	if got := strings.Count(buf.String(), "no date header"); got != before+1 {
		t.Fatalf("expected one more diagnostic entry, got %d -> %d", before, got)
	}
}

func TestParseBlockDateOnly(t *testing.T) {
	p, _ := testParser(t)

	date, records, err := p.ParseBlock("7 апреля:", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date.ISO() != "2025-04-07" {
		t.Fatalf("date = %s", date.ISO())
	}
	if len(records) != 0 {
		t.Fatalf("expected zero records, got %d", len(records))
	}
}

func TestParseBlockUnrecognizedLine(t *testing.T) {
	p, buf := testParser(t, "еда")

	_, records, err := p.ParseBlock("7 апреля\nкупил что-то\n-250р хлеб [еда]", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The bad line does not invalidate the rest of the block.
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if !strings.Contains(buf.String(), "unparsed line") {
		t.Fatalf("expected unparsed diagnostic, got %q", buf.String())
	}
}

func TestParseBlockInvalidAmount(t *testing.T) {
	p, buf := testParser(t, "еда")

	// Matches the expense shape but the amount does not normalize.
	_, records, err := p.ParseBlock("7 апреля\n-1.2.3р хлеб [еда]", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected zero records, got %d: %+v", len(records), records)
	}
	if !strings.Contains(buf.String(), "unparsed line") {
		t.Fatalf("expected unparsed diagnostic, got %q", buf.String())
	}
}

func TestParseBlockFallbackCategory(t *testing.T) {
	p, _ := testParser(t, "еда")

	text := "7 апреля\n-100р такси [метро]\n-50р жвачка"
	_, records, err := p.ParseBlock(text, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Unknown tag and missing tag both land in the fallback category.
	for i, rec := range records {
		if rec.Category != DefaultFallbackCategory {
			t.Errorf("record %d: category = %q, expected %q", i, rec.Category, DefaultFallbackCategory)
		}
		if !rec.Primary {
			t.Errorf("record %d: expected primary", i)
		}
	}
}

func TestParseBlockNormalizesWhitespace(t *testing.T) {
	p, _ := testParser(t, "еда")

	// Zero-width characters and non-breaking spaces in the raw message.
	text := "7 апреля​\n-1 250р обед [еда]"
	date, records, err := p.ParseBlock(text, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date.ISO() != "2025-04-07" {
		t.Fatalf("date = %s", date.ISO())
	}
	if len(records) != 1 || records[0].Amount.Minor != 125000 {
		t.Fatalf("records = %+v", records)
	}
}
