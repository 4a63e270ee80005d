package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/cycletest/internal/snapshot"
	"github.com/roach88/cycletest/internal/stream"
)

// WriteRun inserts a run and all of its messages in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - writing the same run ID
// twice keeps the first copy.
//
// The run's seq is assigned here as one past the current maximum.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("write run: id is required")
	}
	if run.Fixture == "" {
		return fmt.Errorf("write run: fixture is required")
	}

	errsJSON, err := marshalErrors(run.Errors)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, fixture, pass, seq, errors)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Fixture, run.Pass, errsJSON)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n == 0 {
		return nil
	}

	for _, name := range snapshot.StreamNames(run.Streams) {
		if err := writeMessages(ctx, tx, run.ID, name, run.Streams[name]); err != nil {
			return fmt.Errorf("write run: stream %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

func writeMessages(ctx context.Context, tx *sql.Tx, runID, name string, msgs []stream.Notification) error {
	for idx, m := range msgs {
		var value, errText sql.NullString
		switch m.Kind {
		case stream.KindNext:
			v, err := marshalValue(m.Value)
			if err != nil {
				return fmt.Errorf("message %d: %w", idx, err)
			}
			value = sql.NullString{String: v, Valid: true}
		case stream.KindError:
			if m.Err != nil {
				errText = sql.NullString{String: m.Err.Error(), Valid: true}
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (run_id, stream, idx, time, kind, value, error)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runID, name, idx, m.Time, m.Kind.String(), value, errText)
		if err != nil {
			return fmt.Errorf("message %d: %w", idx, err)
		}
	}
	return nil
}
