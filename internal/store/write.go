package store

import (
	"context"
	"fmt"

	"github.com/roach88/agsim/internal/state"
)

// CreateRun inserts a run row. The run's event count starts at zero
// and is maintained by AppendEvents.
func (s *Store) CreateRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, seed, sim_start, sim_end)
		VALUES (?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Scenario,
		run.Seed,
		run.SimStart.UTC().Format(timeFormat),
		run.SimEnd.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("create run %s: %w", run.ID, err)
	}
	return nil
}

// AppendEvents writes a batch of change events for a run in one
// transaction, preserving slice order as insertion order. Either the
// whole batch lands or none of it does.
func (s *Store) AppendEvents(ctx context.Context, runID string, events []state.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (run_id, time, agent_id, field, old_value, new_value)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		_, err := stmt.ExecContext(ctx,
			runID,
			ev.Time.UTC().Format(timeFormat),
			ev.AgentID,
			ev.Field,
			ev.OldValue,
			ev.NewValue,
		)
		if err != nil {
			return fmt.Errorf("insert event for run %s: %w", runID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE runs SET event_count = event_count + ? WHERE id = ?
	`, len(events), runID)
	if err != nil {
		return fmt.Errorf("update event count for run %s: %w", runID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append for run %s: %w", runID, err)
	}
	return nil
}
