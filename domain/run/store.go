package run

import "context"

// OrderBy selects the sort column for listing.
type OrderBy string

const (
	OrderByStartTime OrderBy = "start_time"
	OrderByEndTime   OrderBy = "end_time"
	OrderByID        OrderBy = "id"
)

// ListFilter narrows and orders a listing of records.
type ListFilter struct {
	// Terminations restricts results to these termination types.
	Terminations []string
	// GoalPattern is a substring match against the goal.
	GoalPattern string
	OrderBy     OrderBy
	Descending  bool
	Limit       int
	Offset      int
}

// Store persists finished run records.
type Store interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter ListFilter) ([]*Record, error)
}
