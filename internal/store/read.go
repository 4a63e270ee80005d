package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/cycletest/internal/stream"
)

// ReadRun returns the run with the given ID and all of its messages.
// Returns an error wrapping ErrRunNotFound if no such run exists.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	var errsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, fixture, pass, seq, errors FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Fixture, &run.Pass, &run.Seq, &errsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	run.Errors, err = unmarshalErrors(errsJSON)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	run.Streams, err = s.readMessages(ctx, id)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

func (s *Store) readMessages(ctx context.Context, runID string) (map[string][]stream.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stream, time, kind, value, error
		FROM messages
		WHERE run_id = ?
		ORDER BY stream COLLATE BINARY ASC, idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	streams := make(map[string][]stream.Notification)
	for rows.Next() {
		var (
			name, kindText string
			at             int64
			value, errText sql.NullString
		)
		if err := rows.Scan(&name, &at, &kindText, &value, &errText); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}

		kind, err := stream.ParseKind(kindText)
		if err != nil {
			return nil, err
		}

		var n stream.Notification
		switch kind {
		case stream.KindNext:
			var v any
			if value.Valid {
				if v, err = unmarshalValue(value.String); err != nil {
					return nil, err
				}
			}
			n = stream.OnNext(at, v)
		case stream.KindCompleted:
			n = stream.OnCompleted(at)
		case stream.KindError:
			n = stream.OnError(at, errors.New(errText.String))
		}
		streams[name] = append(streams[name], n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return streams, nil
}

// ListRuns returns run summaries, newest first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.fixture, r.pass, r.seq,
		       (SELECT COUNT(*) FROM messages m WHERE m.run_id = r.id)
		FROM runs r
		ORDER BY r.seq DESC, r.id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Fixture, &r.Pass, &r.Seq, &r.Messages); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
