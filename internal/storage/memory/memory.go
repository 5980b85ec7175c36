// Package memory is an in-memory Store with the same query shape as the
// SQLite repository. It backs tests and storeless local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"uchet/internal/core"
)

type Store struct {
	mu      sync.Mutex
	records []core.TransactionRecord
	markers map[[2]int]struct{}
	nextID  int64
}

func New() *Store {
	return &Store{markers: make(map[[2]int]struct{}), nextID: 1}
}

// InsertRecords appends all records of one block atomically.
func (s *Store) InsertRecords(_ context.Context, records []core.TransactionRecord) error {
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("validate record: %w", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		rec.ID = s.nextID
		s.nextID++
		s.records = append(s.records, rec)
	}
	return nil
}

func (s *Store) QueryRange(_ context.Context, kind core.Kind, primaryOnly bool, start, end core.Date) ([]core.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.TransactionRecord
	for _, rec := range s.records {
		if rec.Kind != kind {
			continue
		}
		if primaryOnly && !rec.Primary {
			continue
		}
		if rec.Date.Before(start.Time) || !rec.Date.Before(end.Time) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) MarkerExists(_ context.Context, year, month int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.markers[[2]int{year, month}]
	return ok, nil
}

func (s *Store) InsertMarkerIfAbsent(_ context.Context, year, month int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int{year, month}
	if _, ok := s.markers[key]; ok {
		return false, nil
	}
	s.markers[key] = struct{}{}
	return true, nil
}

func (s *Store) Close() error { return nil }
