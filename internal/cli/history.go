package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	SubjectID string
	Since     string
	Until     string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query the append-only change ledger",
		Long: `Query the append-only change ledger.

Entries are returned oldest first; repeated queries with no intervening
writes return identical output.

Example:
  regengine history --subject EU-32023R1542 --since 2025-01-01T00:00:00Z`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SubjectID, "subject", "", "filter by subject identifier")
	cmd.Flags().StringVar(&opts.Since, "since", "", "only entries at or after this RFC 3339 time")
	cmd.Flags().StringVar(&opts.Until, "until", "", "only entries at or before this RFC 3339 time")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	filter := store.LedgerFilter{SubjectID: opts.SubjectID}

	var err error
	if filter.Since, err = parseTimeFlag(opts.Since); err != nil {
		return WrapExitError(ExitCommandError, "--since", err)
	}
	if filter.Until, err = parseTimeFlag(opts.Until); err != nil {
		return WrapExitError(ExitCommandError, "--until", err)
	}

	a, err := openApp(opts.RootOptions, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.engine.History(cmd.Context(), filter)
	if err != nil {
		return WrapExitError(ExitFailure, "query history", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d entries\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s  %-12s %s v%d  %s\n",
			e.Timestamp.Format(time.RFC3339), e.ChangeType, e.SubjectID, e.SubjectVersion, e.DiffSummary)
	}
	return newFormatter(opts.RootOptions, cmd.OutOrStdout()).Emit(entries, strings.TrimRight(b.String(), "\n"))
}

func parseTimeFlag(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
