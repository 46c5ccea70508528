package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/urmzd/singingbell/pkg/device"
)

// MaxEvents bounds the history table; older rows are dropped on insert.
const MaxEvents = 10000

// EventStore records device state transitions. It satisfies device.Recorder.
type EventStore struct {
	db  *DB
	max int
}

var _ device.Recorder = (*EventStore)(nil)

// Events returns the event store for this database.
func (db *DB) Events() *EventStore {
	return &EventStore{db: db, max: MaxEvents}
}

// Record inserts a transition and trims the table to the newest rows.
func (s *EventStore) Record(ctx context.Context, t device.Transition) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chime_events (mode, action, status, source, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, string(t.Mode), string(t.Action), string(t.Status), t.Source, t.Timestamp.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to record event: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM chime_events
			WHERE id <= (SELECT id FROM chime_events ORDER BY id DESC LIMIT 1 OFFSET ?)
		`, s.max)
		if err != nil {
			return fmt.Errorf("failed to trim events: %w", err)
		}
		return nil
	})
}

// Recent returns up to limit events, newest first.
func (s *EventStore) Recent(ctx context.Context, limit int) ([]device.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, action, status, source, created_at
		FROM chime_events ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	events := []device.Event{}
	for rows.Next() {
		var (
			e         device.Event
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Mode, &e.Action, &e.Status, &e.Source, &createdAt); err != nil {
			return nil, err
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Count returns the number of stored events.
func (s *EventStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chime_events`).Scan(&n)
	return n, err
}
