// Package postgres stores analytics events in a Postgres table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/aretw0/pageflow/pkg/domain"
)

// DefaultTable is the table events are written to.
const DefaultTable = "pageflow_events"

// EventRow is an event read back from the table.
type EventRow struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"ts"`
	Event       string    `json:"event"`
	Page        string    `json:"page"`
	SelectionID string    `json:"selection_id"`
	SessionID   *string   `json:"session_id,omitempty"`
}

// Sink implements ports.AnalyticsSink over database/sql with the lib/pq driver.
type Sink struct {
	db    *sql.DB
	table string
	now   func() time.Time
}

// Open connects to dsn, checks the connection and ensures the table exists.
func Open(ctx context.Context, dsn string) (*Sink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := NewFromDB(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewFromDB wraps an existing connection pool.
func NewFromDB(db *sql.DB) *Sink {
	return &Sink{db: db, table: DefaultTable, now: time.Now}
}

// EnsureSchema creates the events table and its indexes if they do not exist.
func (s *Sink) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id           BIGSERIAL PRIMARY KEY,
			ts           TIMESTAMPTZ NOT NULL,
			event        TEXT NOT NULL,
			page         TEXT NOT NULL,
			selection_id TEXT NOT NULL,
			session_id   TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_ts ON %[1]s(ts DESC);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_event ON %[1]s(event);
	`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}
	return nil
}

// Emit implements ports.AnalyticsSink.
func (s *Sink) Emit(ctx context.Context, e domain.AnalyticsEvent) error {
	var session *string
	if e.SessionID != "" {
		session = &e.SessionID
	}
	query := fmt.Sprintf(`INSERT INTO %s (ts, event, page, selection_id, session_id) VALUES ($1, $2, $3, $4, $5)`, s.table)
	if _, err := s.db.ExecContext(ctx, query, s.now().UTC(), e.Name, e.Page, e.SelectionID, session); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Recent returns the last limit events, newest first.
func (s *Sink) Recent(ctx context.Context, limit int) ([]EventRow, error) {
	if limit <= 0 {
		limit = 200
	}
	if limit > 10000 {
		limit = 10000
	}

	query := fmt.Sprintf(`SELECT id, ts, event, page, selection_id, session_id FROM %s ORDER BY ts DESC, id DESC LIMIT $1`, s.table)
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []EventRow
	for rows.Next() {
		var r EventRow
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Event, &r.Page, &r.SelectionID, &r.SessionID); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the connection pool.
func (s *Sink) Close() error {
	return s.db.Close()
}
