package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/replay"
)

var replayFlags struct {
	fixture string
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a JSON fixture through the pipeline with scripted backends",
	Long: `Runs every interaction of a fixture through an in-memory pipeline whose
backends answer from the fixture, then compares dispositions with the
expected results. Exits non-zero on any mismatch.`,
	RunE: runReplay,
}

func init() {
	f := replayCmd.Flags()
	f.StringVar(&replayFlags.fixture, "fixture", "", "Path to fixture JSON (required)")
	_ = replayCmd.MarkFlagRequired("fixture")
}

func runReplay(cmd *cobra.Command, _ []string) error {
	fixture, err := replay.LoadFixture(replayFlags.fixture)
	if err != nil {
		return err
	}

	results, err := replay.Replay(cmd.Context(), fixture)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Replay: %s\n", fixture.Description)
	for _, r := range results {
		line := fmt.Sprintf("  %-20s %-18s %-32s integrity=%.3f", r.TurnID, r.Disposition, r.Reason, r.Integrity)
		if r.Fallback {
			line += " fallback"
		}
		if r.Err != nil {
			line += fmt.Sprintf(" err=%v", r.Err)
		}
		fmt.Fprintln(out, line)
	}

	s := replay.Summarize(results)
	fmt.Fprintf(out, "\nTurns: %d | Proceed: %d | Note: %d | Clarify: %d | Errors: %d | Fallbacks: %d\n",
		s.TotalTurns, s.Proceeds, s.Notes, s.Clarifies, s.Errors, s.Fallbacks)

	mismatches := replay.Check(results, fixture.ExpectedResults)
	if len(mismatches) == 0 {
		fmt.Fprintln(out, "All expectations met.")
		return nil
	}
	for _, m := range mismatches {
		fmt.Fprintf(out, "MISMATCH %s\n", m)
	}
	return fmt.Errorf("%d of %d expectations not met", len(mismatches), len(fixture.ExpectedResults))
}
