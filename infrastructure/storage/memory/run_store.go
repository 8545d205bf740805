// Package memory provides an in-memory run store for tests and
// ephemeral runs.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/reagent/domain/run"
)

// runEntry holds a deep copy of a record for storage.
type runEntry struct {
	data []byte
}

// RunStore is an in-memory implementation of run.Store.
type RunStore struct {
	runs map[string]*runEntry
	mu   sync.RWMutex
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*runEntry),
	}
}

// Save persists a finished run.
func (s *RunStore) Save(ctx context.Context, r *run.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.ID == "" {
		return run.ErrInvalidRunID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[r.ID]; exists {
		return run.ErrRunExists
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	s.runs[r.ID] = &runEntry{data: data}
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(ctx context.Context, id string) (*run.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, run.ErrInvalidRunID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.runs[id]
	if !ok {
		return nil, run.ErrRunNotFound
	}

	var r run.Record
	if err := json.Unmarshal(entry.data, &r); err != nil {
		return nil, err
	}

	return &r, nil
}

// List returns runs matching the filter.
func (s *RunStore) List(ctx context.Context, filter run.ListFilter) ([]*run.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	records := make([]*run.Record, 0, len(s.runs))
	for _, entry := range s.runs {
		var r run.Record
		if err := json.Unmarshal(entry.data, &r); err != nil {
			continue
		}
		records = append(records, &r)
	}
	s.mu.RUnlock()

	records = filterRecords(records, filter)
	sortRecords(records, filter)

	if filter.Offset > 0 {
		if filter.Offset >= len(records) {
			return nil, nil
		}
		records = records[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}

	return records, nil
}

// Len returns the number of stored runs.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

func filterRecords(records []*run.Record, filter run.ListFilter) []*run.Record {
	out := records[:0]
	for _, r := range records {
		if len(filter.Terminations) > 0 && !containsTermination(filter.Terminations, string(r.Termination.Type)) {
			continue
		}
		if filter.GoalPattern != "" && !strings.Contains(r.Goal, filter.GoalPattern) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func containsTermination(terminations []string, t string) bool {
	for _, candidate := range terminations {
		if candidate == t {
			return true
		}
	}
	return false
}

func sortRecords(records []*run.Record, filter run.ListFilter) {
	less := func(a, b *run.Record) bool {
		switch filter.OrderBy {
		case run.OrderByEndTime:
			return a.EndTime.Before(b.EndTime)
		case run.OrderByID:
			return a.ID < b.ID
		default:
			return a.StartTime.Before(b.StartTime)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if filter.Descending {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}

var _ run.Store = (*RunStore)(nil)
