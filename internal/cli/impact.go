package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewImpactCommand creates the impact command.
func NewImpactCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact <requirement-id>",
		Short: "Resolve the components, tests, and documents a requirement affects",
		Long: `Resolve the components, tests, and documents a requirement affects.

Resolution is a pure lookup against the versioned cross-reference model;
the same requirement and model version always give the same answer.

Example:
  regengine impact REQ-EU-32023R1542-v1-001`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImpact(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runImpact(cmd *cobra.Command, rootOpts *RootOptions, requirementID string) error {
	a, err := openApp(rootOpts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	assessment, err := a.engine.Impact(cmd.Context(), requirementID)
	if err != nil {
		return WrapExitError(ExitFailure, "resolve impact", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (model %s)\n", requirementID, assessment.ModelVersion)
	fmt.Fprintf(&b, "  components: %s\n", formatSet(assessment.Components))
	fmt.Fprintf(&b, "  tests:      %s\n", formatSet(assessment.Tests))
	fmt.Fprintf(&b, "  documents:  %s", formatSet(assessment.Documents))
	return newFormatter(rootOpts, cmd.OutOrStdout()).Emit(assessment, b.String())
}

func formatSet(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
