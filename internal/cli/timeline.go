package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/agsim/internal/store"
	"github.com/roach88/agsim/internal/timeline"
)

// TimelineOptions holds flags for the timeline command.
type TimelineOptions struct {
	*RootOptions
	Database string
	RunID    string
	AgentID  string
	Merged   bool
}

// TimelineResult is the JSON payload: agent ID (or "*" for merged)
// mapped to reconstructed entries.
type TimelineResult struct {
	RunID     string                      `json:"run_id"`
	Timelines map[string][]timeline.Entry `json:"timelines"`
}

// mergedKey names the combined timeline in JSON output.
const mergedKey = "*"

// NewTimelineCommand creates the timeline command.
func NewTimelineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TimelineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Reconstruct timelines from a stored run",
		Long: `Replay a stored event log into human-readable timelines: one full
state snapshot per distinct event timestamp, annotated with the fields
that changed, preceded by a synthetic initial entry reconstructing the
pre-history state.

Examples:
  agsim timeline --db sim.db --run <run-id>
  agsim timeline --db sim.db --run <run-id> --agent device_003
  agsim timeline --db sim.db --run <run-id> --merged --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeline(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID (required)")
	_ = cmd.MarkFlagRequired("run")
	cmd.Flags().StringVar(&opts.AgentID, "agent", "", "restrict to one agent")
	cmd.Flags().BoolVar(&opts.Merged, "merged", false, "combine all agents into one timeline")

	return cmd
}

func runTimeline(opts *TimelineOptions, cmd *cobra.Command) error {
	if opts.AgentID != "" && opts.Merged {
		return NewExitError(ExitCommandError, "--agent and --merged are mutually exclusive")
	}

	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if _, err := st.GetRun(ctx, opts.RunID); err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	timelines := make(map[string]timeline.Timeline)
	switch {
	case opts.AgentID != "":
		events, err := st.ReadAgentEvents(ctx, opts.RunID, opts.AgentID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read events", err)
		}
		if len(events) == 0 {
			return NewExitError(ExitFailure, fmt.Sprintf("no events for agent %q in run %s", opts.AgentID, opts.RunID))
		}
		tl, _ := timeline.Merged(events)
		timelines[opts.AgentID] = tl

	case opts.Merged:
		events, err := st.ReadEvents(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read events", err)
		}
		tl, ok := timeline.Merged(events)
		if !ok {
			return NewExitError(ExitFailure, fmt.Sprintf("run %s has no events", opts.RunID))
		}
		timelines[mergedKey] = tl

	default:
		events, err := st.ReadEvents(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read events", err)
		}
		timelines = timeline.Generate(events)
		if len(timelines) == 0 {
			return NewExitError(ExitFailure, fmt.Sprintf("run %s has no events", opts.RunID))
		}
	}

	if opts.Format == "json" {
		result := TimelineResult{RunID: opts.RunID, Timelines: make(map[string][]timeline.Entry, len(timelines))}
		for id, tl := range timelines {
			result.Timelines[id] = tl.Entries
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{Status: "ok", Data: result})
	}

	w := cmd.OutOrStdout()
	for _, id := range slices.Sorted(maps.Keys(timelines)) {
		fmt.Fprintf(w, "--- Timeline: %s ---\n", id)
		fmt.Fprint(w, timelines[id].String())
		fmt.Fprintln(w)
	}
	return nil
}
