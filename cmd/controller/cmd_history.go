package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyFlags struct {
	sessionID string
	limit     int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show stored turns and gate decisions",
	Long: `Without --session, lists known sessions (most recent first). With --session,
prints the stored turns oldest first and the latest gate decisions.`,
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.sessionID, "session", "", "Session ID")
	f.IntVar(&historyFlags.limit, "limit", 10, "Maximum decisions to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, decisions, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if historyFlags.sessionID == "" {
		ids, err := store.Sessions(ctx)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(ids) == 0 {
			fmt.Fprintln(out, "No sessions stored.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	}

	turns, err := store.Get(ctx, historyFlags.sessionID)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	fmt.Fprintf(out, "Session: %s (%d turns)\n", historyFlags.sessionID, len(turns))
	for _, t := range turns {
		fmt.Fprintf(out, "  [%s] %s\n", t.Timestamp.Format("2006-01-02 15:04:05"), t.Metadata["disposition"])
		fmt.Fprintf(out, "    user: %s\n", t.UserText)
		fmt.Fprintf(out, "    assistant: %s\n", t.AssistantText)
	}

	entries, err := decisions.Recent(ctx, historyFlags.sessionID, historyFlags.limit)
	if err != nil {
		return fmt.Errorf("read decisions: %w", err)
	}
	if len(entries) > 0 {
		fmt.Fprintf(out, "Decisions:\n")
	}
	for _, e := range entries {
		line := fmt.Sprintf("  %s %-18s %-32s integrity=%.3f", e.RequestID, e.Disposition, e.Reason, e.Integrity)
		if e.ChosenBackend != "" {
			line += " backend=" + e.ChosenBackend
		}
		if e.Fallback {
			line += " fallback"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
