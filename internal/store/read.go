package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/agsim/internal/state"
)

// ErrRunNotFound reports a run ID with no stored row.
var ErrRunNotFound = errors.New("run not found")

// GetRun reads one run row by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, seed, sim_start, sim_end, event_count, created_at
		FROM runs WHERE id = ?
	`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns all runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, seed, sim_start, sim_end, event_count, created_at
		FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ReadEvents returns a run's full event log in production order.
func (s *Store) ReadEvents(ctx context.Context, runID string) ([]state.ChangeEvent, error) {
	return s.readEvents(ctx, `
		SELECT time, agent_id, field, old_value, new_value
		FROM events WHERE run_id = ? ORDER BY seq
	`, runID)
}

// ReadAgentEvents returns one agent's slice of a run's log, still in
// production order.
func (s *Store) ReadAgentEvents(ctx context.Context, runID, agentID string) ([]state.ChangeEvent, error) {
	return s.readEvents(ctx, `
		SELECT time, agent_id, field, old_value, new_value
		FROM events WHERE run_id = ? AND agent_id = ? ORDER BY seq
	`, runID, agentID)
}

// ListAgents returns the distinct agent IDs appearing in a run's log.
func (s *Store) ListAgents(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT agent_id FROM events WHERE run_id = ? ORDER BY agent_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list agents for run %s: %w", runID, err)
	}
	defer rows.Close()

	var agents []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan agent id: %w", err)
		}
		agents = append(agents, id)
	}
	return agents, rows.Err()
}

func (s *Store) readEvents(ctx context.Context, query string, args ...any) ([]state.ChangeEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	var events []state.ChangeEvent
	for rows.Next() {
		var (
			ev      state.ChangeEvent
			rawTime string
		)
		if err := rows.Scan(&rawTime, &ev.AgentID, &ev.Field, &ev.OldValue, &ev.NewValue); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Time, err = time.Parse(timeFormat, rawTime)
		if err != nil {
			return nil, fmt.Errorf("parse event time %q: %w", rawTime, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run                         Run
		simStart, simEnd, createdAt string
	)
	err := sc.Scan(&run.ID, &run.Scenario, &run.Seed, &simStart, &simEnd, &run.EventCount, &createdAt)
	if err != nil {
		return Run{}, err
	}

	if run.SimStart, err = time.Parse(timeFormat, simStart); err != nil {
		return Run{}, fmt.Errorf("parse sim_start %q: %w", simStart, err)
	}
	if run.SimEnd, err = time.Parse(timeFormat, simEnd); err != nil {
		return Run{}, fmt.Errorf("parse sim_end %q: %w", simEnd, err)
	}
	if run.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return run, nil
}
