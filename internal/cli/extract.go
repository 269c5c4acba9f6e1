package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <regulation-id>",
		Short: "Derive requirements from the latest version of a regulation",
		Long: `Derive requirements from the latest version of a regulation.

Extraction is deterministic: re-running it against unchanged text yields
the same requirement set and writes nothing new to the ledger.

Example:
  regengine extract EU-32023R1542`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runExtract(cmd *cobra.Command, rootOpts *RootOptions, regID string) error {
	a, err := openApp(rootOpts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := a.engine.ExtractLatest(cmd.Context(), regID)
	if err != nil {
		return WrapExitError(ExitFailure, "extract", err)
	}

	return newFormatter(rootOpts, cmd.OutOrStdout()).Emit(recs, formatRequirements(regID, recs))
}

func formatRequirements(regID string, recs []model.RequirementRecord) string {
	if len(recs) == 0 {
		return fmt.Sprintf("%s: no actionable requirements", regID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d requirements\n", regID, len(recs))
	for _, rec := range recs {
		fmt.Fprintf(&b, "  %s  %s\n", rec.ID, rec.TextEngineering)
	}
	return strings.TrimRight(b.String(), "\n")
}
