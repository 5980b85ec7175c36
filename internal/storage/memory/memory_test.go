package memory

import (
	"context"
	"testing"

	"uchet/internal/core"
)

func TestQueryRangeFiltersAndSorts(t *testing.T) {
	store := New()
	ctx := context.Background()

	// Inserted out of date order.
	records := []core.TransactionRecord{
		{Date: core.NewDate(2025, 4, 9), Kind: core.Expense, Amount: core.Money{Minor: 300}, Category: "еда", Primary: true},
		{Date: core.NewDate(2025, 4, 7), Kind: core.Expense, Amount: core.Money{Minor: 100}, Category: "еда", Primary: true},
		{Date: core.NewDate(2025, 4, 7), Kind: core.Expense, Amount: core.Money{Minor: 100}, Category: "проезд", Primary: false},
		{Date: core.NewDate(2025, 4, 7), Kind: core.Income, Amount: core.Money{Minor: 500}, Primary: true},
		{Date: core.NewDate(2025, 5, 1), Kind: core.Expense, Amount: core.Money{Minor: 999}, Category: "еда", Primary: true},
	}
	if err := store.InsertRecords(ctx, records); err != nil {
		t.Fatalf("InsertRecords: %v", err)
	}

	start, end := core.MonthBounds(2025, 4)
	got, err := store.QueryRange(ctx, core.Expense, false, start, end)
	if err != nil {
		t.Fatalf("QueryRange: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, expected 3", len(got))
	}
	// Date ascending, insertion order within a day.
	if got[0].Category != "еда" || got[1].Category != "проезд" || got[2].Amount.Minor != 300 {
		t.Fatalf("order: %+v", got)
	}

	primaries, err := store.QueryRange(ctx, core.Expense, true, start, end)
	if err != nil {
		t.Fatalf("QueryRange primary: %v", err)
	}
	if len(primaries) != 2 {
		t.Fatalf("got %d primary records, expected 2", len(primaries))
	}
}

func TestInsertRecordsValidatesWholeBlock(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.InsertRecords(ctx, []core.TransactionRecord{
		{Date: core.NewDate(2025, 4, 7), Kind: core.Expense, Amount: core.Money{Minor: 100}, Category: "еда", Primary: true},
		{Date: core.NewDate(2025, 4, 7), Kind: core.Expense, Amount: core.Money{Minor: 100}, Primary: true}, // no category
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	start, end := core.MonthBounds(2025, 4)
	got, _ := store.QueryRange(ctx, core.Expense, false, start, end)
	if len(got) != 0 {
		t.Fatalf("partial block committed: %+v", got)
	}
}

func TestMarkers(t *testing.T) {
	store := New()
	ctx := context.Background()

	if ok, _ := store.MarkerExists(ctx, 2025, 4); ok {
		t.Fatal("marker should not exist yet")
	}
	if inserted, _ := store.InsertMarkerIfAbsent(ctx, 2025, 4); !inserted {
		t.Fatal("first insert should report true")
	}
	if inserted, _ := store.InsertMarkerIfAbsent(ctx, 2025, 4); inserted {
		t.Fatal("second insert should report false")
	}
	if ok, _ := store.MarkerExists(ctx, 2025, 4); !ok {
		t.Fatal("marker should exist")
	}
}
