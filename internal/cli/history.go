package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/worklab/newsdigest/internal/app"
	"github.com/worklab/newsdigest/internal/storage"
)

func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the delivery history after pruning",
		Long: `Load the configured history backend, apply the retention window in
memory and print how many records remain and when the newest was sent.
Nothing is written back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.settings(false)
			if err != nil {
				return err
			}

			backend, closeFn, err := app.OpenBackend(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer closeFn()

			h := storage.NewHistory(backend, cfg.HistoryRetention)
			h.Load(cmd.Context())
			pruned := h.Prune(time.Now().In(cfg.Location))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend: %s\n", cfg.HistoryBackend)
			fmt.Fprintf(out, "records: %d (expired: %d)\n", h.Len(), pruned)
			if last, ok := h.LastDelivery(); ok {
				fmt.Fprintf(out, "newest: %s\n", last.In(cfg.Location).Format(time.RFC3339))
			} else {
				fmt.Fprintln(out, "newest: none")
			}
			return nil
		},
	}
}
