package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/model"
)

// RegulationsListOptions holds flags for the regulations list command.
type RegulationsListOptions struct {
	*RootOptions
	Country string
	Query   string
}

// NewRegulationsCommand creates the regulations command group.
func NewRegulationsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regulations",
		Short: "Inspect stored regulations",
	}
	cmd.AddCommand(newRegulationsListCommand(rootOpts))
	cmd.AddCommand(newRegulationsShowCommand(rootOpts))
	cmd.AddCommand(newRegulationsVersionsCommand(rootOpts))
	return cmd
}

func newRegulationsListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegulationsListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List the latest version of every stored regulation",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegulationsList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Country, "country", "", "filter by country code")
	cmd.Flags().StringVar(&opts.Query, "q", "", "filter by title substring")

	return cmd
}

func runRegulationsList(cmd *cobra.Command, opts *RegulationsListOptions) error {
	a, err := openApp(opts.RootOptions, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	regs, err := a.engine.ListRegulations(cmd.Context(), opts.Country, opts.Query)
	if err != nil {
		return WrapExitError(ExitFailure, "list regulations", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d regulations\n", len(regs))
	for _, reg := range regs {
		fmt.Fprintf(&b, "  %s\n", formatRegulationLine(reg))
	}
	return newFormatter(opts.RootOptions, cmd.OutOrStdout()).Emit(regs, strings.TrimRight(b.String(), "\n"))
}

func newRegulationsShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <regulation-id>",
		Short:         "Show the latest version of one regulation",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegulationsShow(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runRegulationsShow(cmd *cobra.Command, rootOpts *RootOptions, id string) error {
	a, err := openApp(rootOpts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	reg, err := a.engine.GetRegulation(cmd.Context(), id)
	if err != nil {
		return WrapExitError(ExitFailure, "show regulation", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", formatRegulationLine(reg))
	fmt.Fprintf(&b, "  source:      %s\n", reg.Source)
	fmt.Fprintf(&b, "  fingerprint: %s\n", reg.Fingerprint)
	if reg.URL != "" {
		fmt.Fprintf(&b, "  url:         %s\n", reg.URL)
	}
	fmt.Fprintf(&b, "\n%s", reg.Body)
	return newFormatter(rootOpts, cmd.OutOrStdout()).Emit(reg, b.String())
}

func newRegulationsVersionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "versions <regulation-id>",
		Short:         "List every committed version of one regulation",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegulationsVersions(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runRegulationsVersions(cmd *cobra.Command, rootOpts *RootOptions, id string) error {
	a, err := openApp(rootOpts, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	versions, err := a.engine.ListRegulationVersions(cmd.Context(), id)
	if err != nil {
		return WrapExitError(ExitFailure, "list versions", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d versions\n", id, len(versions))
	for _, reg := range versions {
		fmt.Fprintf(&b, "  v%-3d committed %s  %s\n",
			reg.Version, reg.CreatedAt.Format(time.RFC3339), reg.Fingerprint[:12])
	}
	return newFormatter(rootOpts, cmd.OutOrStdout()).Emit(versions, strings.TrimRight(b.String(), "\n"))
}

func formatRegulationLine(reg model.Regulation) string {
	return fmt.Sprintf("%s v%d  [%s]  %s  (published %s)",
		reg.ID, reg.Version, reg.Country, reg.Title, reg.PublishedAt.Format("2006-01-02"))
}
