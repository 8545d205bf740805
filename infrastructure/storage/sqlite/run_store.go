package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/felixgeelhaar/reagent/domain/run"
)

// RunStore is a SQLite-backed implementation of run.Store. The full
// record is stored as a JSON blob; the columns used for filtering and
// ordering are duplicated as typed columns.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new SQLite run store with the given
// configuration.
func NewRunStore(cfg Config, opts ...Option) (*RunStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &RunStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewRunStoreFromDB creates a run store from an existing database
// connection.
func NewRunStoreFromDB(db *sql.DB) (*RunStore, error) {
	s := &RunStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RunStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			goal TEXT NOT NULL,
			termination TEXT NOT NULL,
			step_count INTEGER NOT NULL,
			cost INTEGER NOT NULL,
			data BLOB NOT NULL,
			start_time INTEGER NOT NULL,
			end_time INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_termination ON runs(termination);
		CREATE INDEX IF NOT EXISTS idx_runs_start_time ON runs(start_time);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Save persists a finished run.
func (s *RunStore) Save(ctx context.Context, r *run.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.ID == "" {
		return run.ErrInvalidRunID
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, goal, termination, step_count, cost, data, start_time, end_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Goal, string(r.Termination.Type), r.StepCount, r.Cost,
		data, r.StartTime.Unix(), r.EndTime.Unix(),
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return run.ErrRunExists
		}
		return err
	}

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

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM runs WHERE id = ?",
		id,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, run.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	var r run.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	return &r, nil
}

// List returns runs matching the filter.
func (s *RunStore) List(ctx context.Context, filter run.ListFilter) ([]*run.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query, args := buildListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*run.Record
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var r run.Record
		if err := json.Unmarshal(data, &r); err != nil {
			continue // skip malformed entries
		}

		records = append(records, &r)
	}

	return records, rows.Err()
}

func buildListQuery(filter run.ListFilter) (string, []interface{}) {
	query := "SELECT data FROM runs"
	var conditions []string
	var args []interface{}

	if len(filter.Terminations) > 0 {
		placeholders := strings.Repeat("?, ", len(filter.Terminations))
		placeholders = strings.TrimSuffix(placeholders, ", ")
		for _, t := range filter.Terminations {
			args = append(args, t)
		}
		conditions = append(conditions, "termination IN ("+placeholders+")")
	}

	if filter.GoalPattern != "" {
		conditions = append(conditions, "goal LIKE ?")
		args = append(args, "%"+filter.GoalPattern+"%")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := "start_time"
	switch filter.OrderBy {
	case run.OrderByEndTime:
		orderBy = "end_time"
	case run.OrderByID:
		orderBy = "id"
	}

	query += " ORDER BY " + orderBy
	if filter.Descending {
		query += " DESC"
	}

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	return query, args
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *RunStore) DB() *sql.DB {
	return s.db
}

var _ run.Store = (*RunStore)(nil)
