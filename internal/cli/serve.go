package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/worklab/newsdigest/internal/logger"
	"github.com/worklab/newsdigest/internal/metrics"
	"github.com/worklab/newsdigest/internal/monitor"
	"github.com/worklab/newsdigest/internal/scheduler"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Schedule  string
	Immediate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Send digests on a cron schedule",
		Long: `Keep running and send a digest on every activation of the cron
schedule (SCHEDULE, evaluated in TIMEZONE). A run that is still going when
the next activation fires causes that activation to be skipped.

With ENABLE_HTTP_MONITORING=true, /health and /metrics are served on
MONITORING_PORT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "cron spec (overrides SCHEDULE)")
	cmd.Flags().BoolVar(&opts.Immediate, "now", false, "also run once at startup")

	return cmd
}

func serve(ctx context.Context, opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := opts.settings(true)
	if err != nil {
		return err
	}
	if opts.Schedule != "" {
		cfg.Schedule = opts.Schedule
	}

	a, closeFn, err := buildApp(ctx, cfg, false, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeFn()

	job := func(ctx context.Context) {
		if _, err := a.Run(ctx); err != nil {
			logger.Error("Scheduled run failed", "error", err)
		}
	}

	sched, err := scheduler.New(ctx, cfg.Schedule, cfg.Location, job)
	if err != nil {
		return err
	}

	if cfg.EnableMonitoring {
		go func() {
			if err := monitor.Serve(ctx, cfg.MonitoringPort, metrics.Global); err != nil {
				logger.Error("Monitoring server error", "error", err)
			}
		}()
	}

	if opts.Immediate {
		job(ctx)
	}

	sched.Run(ctx)
	return nil
}
