package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/config"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP facade",
		Long: `Run the HTTP facade.

Serves the regulation, requirement, impact, and history endpoints until
interrupted, then drains in-flight requests.

Example:
  regengine serve --db regtrace.db --addr :8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	log, err := cfg.Log.NewLogger()
	if err != nil {
		return WrapExitError(ExitCommandError, "build logger", err)
	}
	defer log.Sync()

	a, err := openApp(opts.RootOptions, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.engine, log)
	if err := srv.Run(ctx, cfg.Addr); err != nil {
		return WrapExitError(ExitFailure, "http server", err)
	}
	return nil
}
