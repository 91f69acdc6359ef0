package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/daisytext/internal/core/domain"
	"github.com/custodia-labs/daisytext/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun stores or replaces a run and its segments atomically.
func (s *runStore) SaveRun(ctx context.Context, result *domain.RunResult) error {
	if result == nil || result.Run.ID == "" {
		return domain.ErrInvalidInput
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("marshalling warnings: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	run := result.Run
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, strategy, unicode_form, raw_chars, clean_chars,
			segment_count, clean_text, warnings, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			strategy = excluded.strategy,
			unicode_form = excluded.unicode_form,
			raw_chars = excluded.raw_chars,
			clean_chars = excluded.clean_chars,
			segment_count = excluded.segment_count,
			clean_text = excluded.clean_text,
			warnings = excluded.warnings,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, run.ID, run.Source, run.Strategy.String(), run.UnicodeForm.String(),
		run.RawChars, run.CleanChars, len(result.Segments), result.CleanText,
		string(warningsJSON), run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM segments WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clearing segments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO segments (run_id, position, content) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing segment insert: %w", err)
	}
	defer stmt.Close()

	for i, seg := range result.Segments {
		if _, err := stmt.ExecContext(ctx, run.ID, i, seg); err != nil {
			return fmt.Errorf("saving segment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID, including its segments in order.
func (s *runStore) GetRun(ctx context.Context, id string) (*domain.RunResult, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source, strategy, unicode_form, raw_chars, clean_chars,
			segment_count, clean_text, warnings, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)

	var result domain.RunResult
	var warningsJSON string
	run, err := scanRun(row, &result.CleanText, &warningsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	result.Run = run

	if err := json.Unmarshal([]byte(warningsJSON), &result.Warnings); err != nil {
		return nil, fmt.Errorf("unmarshaling warnings: %w", err)
	}
	if len(result.Warnings) == 0 {
		result.Warnings = nil
	}

	segments, err := s.segments(ctx, id)
	if err != nil {
		return nil, err
	}
	result.Segments = segments

	return &result, nil
}

func (s *runStore) segments(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT content FROM segments WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("querying segments: %w", err)
	}
	defer rows.Close()

	segments := []string{}
	for rows.Next() {
		var seg string
		if err := rows.Scan(&seg); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// ListRuns returns all runs, most recent first.
func (s *runStore) ListRuns(ctx context.Context) ([]domain.Run, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source, strategy, unicode_form, raw_chars, clean_chars,
			segment_count, '', '[]', started_at, finished_at
		FROM runs ORDER BY started_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.Run{}
	for rows.Next() {
		var cleanText, warningsJSON string
		run, err := scanRun(rows, &cleanText, &warningsJSON)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run; its segments are removed by cascade.
func (s *runStore) DeleteRun(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner, cleanText, warningsJSON *string) (domain.Run, error) {
	var run domain.Run
	var strategy, form string
	var startedAt, finishedAt time.Time
	err := row.Scan(&run.ID, &run.Source, &strategy, &form, &run.RawChars, &run.CleanChars,
		&run.SegmentCount, cleanText, warningsJSON, &startedAt, &finishedAt)
	if err != nil {
		return domain.Run{}, err
	}
	run.Strategy = domain.Strategy(strategy)
	run.UnicodeForm = domain.UnicodeForm(form)
	run.StartedAt = startedAt
	run.FinishedAt = finishedAt
	return run, nil
}
