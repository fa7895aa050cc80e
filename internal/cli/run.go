package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/worklab/newsdigest/internal/app"
	"github.com/worklab/newsdigest/internal/config"
	"github.com/worklab/newsdigest/internal/metrics"
	"github.com/worklab/newsdigest/internal/rss"
	"github.com/worklab/newsdigest/internal/telegram"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	DryRun bool
}

func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build and send one digest",
		Long: `Run one digest cycle: load and prune the history, fetch every feed,
filter and rank the entries, send the digest and record what was sent.

With --dry-run the message is printed instead of sent and the history is
left untouched; Telegram credentials are not required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runOnce(ctx, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the digest instead of sending it and keep the history unchanged")

	return cmd
}

func runOnce(ctx context.Context, opts *RunOptions, out io.Writer) error {
	cfg, err := opts.settings(!opts.DryRun)
	if err != nil {
		return err
	}

	a, closeFn, err := buildApp(ctx, cfg, opts.DryRun, out)
	if err != nil {
		return err
	}
	defer closeFn()

	_, err = a.Run(ctx)
	return err
}

// buildApp wires the feed fetcher, the sink and the history backend.
func buildApp(ctx context.Context, cfg *config.Config, dryRun bool, out io.Writer) (*app.App, func() error, error) {
	rules, err := config.LoadRules(cfg.FeedsConfigPath)
	if err != nil {
		return nil, nil, err
	}

	var sink app.Sink
	if dryRun {
		sink = writerSink{w: out}
	} else {
		s, err := telegram.NewSink(telegram.Options{
			Token:      cfg.TelegramToken,
			ChatID:     cfg.TelegramChatID,
			Attempts:   cfg.SendAttempts,
			RetryDelay: cfg.SendRetryDelay,
		})
		if err != nil {
			return nil, nil, err
		}
		sink = s
	}

	backend, closeFn, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}

	source := rss.NewFetcher(nil, cfg.FetchTimeout, cfg.FetchConcurrency, metrics.Global)
	a := app.New(cfg, rules, source, sink, backend)
	a.DryRun = dryRun
	return a, closeFn, nil
}

// writerSink prints the digest instead of delivering it.
type writerSink struct {
	w io.Writer
}

func (s writerSink) Send(_ context.Context, text string) error {
	_, err := fmt.Fprintln(s.w, text)
	return err
}
