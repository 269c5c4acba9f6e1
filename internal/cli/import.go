package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/engine"
)

// ImportUSOptions holds flags for the import us command.
type ImportUSOptions struct {
	*RootOptions
	Topic string
	Limit int
}

// NewImportCommand creates the import command group.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import regulatory texts from an external source",
	}
	cmd.AddCommand(newImportUSCommand(rootOpts))
	cmd.AddCommand(newImportEUCommand(rootOpts))
	return cmd
}

func newImportUSCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportUSOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "us",
		Short: "Search the US Federal Register by topic and ingest results",
		Long: `Search the US Federal Register by topic and ingest results.

Each qualifying document is ingested through the fingerprint-versioned
store, so re-running the same import is safe: unchanged documents are
no-ops and drifted documents get a new version.

Example:
  regengine import us --topic "lithium battery" --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportUS(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Topic, "topic", "", "search topic (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum documents to fetch")
	cmd.MarkFlagRequired("topic")

	return cmd
}

func runImportUS(cmd *cobra.Command, opts *ImportUSOptions) error {
	a, err := openApp(opts.RootOptions, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.engine.ImportUS(cmd.Context(), opts.Topic, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "import us", err)
	}

	return newFormatter(opts.RootOptions, cmd.OutOrStdout()).Emit(report, formatReport(report))
}

func formatReport(report engine.ImportReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic %q: %d imported, %d re-versioned, %d unchanged\n",
		report.Topic, report.Imported, report.Reversioned, report.Unchanged)
	for _, o := range report.Outcomes {
		fmt.Fprintf(&b, "  %-12s %s v%d  %s\n",
			o.Status, o.Regulation.ID, o.Regulation.Version, o.Regulation.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

func newImportEUCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eu <celex-id>",
		Short: "Fetch one EUR-Lex document by CELEX identifier and ingest it",
		Long: `Fetch one EUR-Lex document by CELEX identifier and ingest it.

Example:
  regengine import eu 32023R1542`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportEU(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runImportEU(cmd *cobra.Command, rootOpts *RootOptions, celexID string) error {
	a, err := openApp(rootOpts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	outcome, err := a.engine.ImportEU(cmd.Context(), celexID)
	if err != nil {
		return WrapExitError(ExitFailure, "import eu", err)
	}

	text := fmt.Sprintf("%s: %s v%d  %s",
		outcome.Status, outcome.Regulation.ID, outcome.Regulation.Version, outcome.Regulation.Title)
	return newFormatter(rootOpts, cmd.OutOrStdout()).Emit(outcome, text)
}
