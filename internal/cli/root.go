package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worklab/newsdigest/internal/config"
	"github.com/worklab/newsdigest/internal/logger"
)

// RootOptions holds state shared by all commands.
type RootOptions struct {
	FeedsPath string

	cfg    *config.Config
	cfgErr error
}

// settings returns the loaded config. Missing Telegram credentials are an
// error unless the command does not deliver.
func (o *RootOptions) settings(needCredentials bool) (*config.Config, error) {
	if o.cfgErr == nil {
		return o.cfg, nil
	}
	if errors.Is(o.cfgErr, config.ErrMissingCredentials) && !needCredentials {
		return o.cfg, nil
	}
	return nil, o.cfgErr
}

// NewRootCommand creates the newsdigest command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "newsdigest",
		Short: "Keyword-ranked news digest for Telegram",
		Long: `newsdigest polls news search feeds, drops entries already delivered,
ranks the rest by keyword tags and posts one digest to a Telegram chat.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.cfg, opts.cfgErr = config.Load()
			if opts.cfg == nil {
				return opts.cfgErr
			}
			if opts.FeedsPath != "" {
				opts.cfg.FeedsConfigPath = opts.FeedsPath
			}
			logger.Init(opts.cfg.Debug, opts.cfg.LogFormat)
			if opts.cfgErr != nil && !errors.Is(opts.cfgErr, config.ErrMissingCredentials) {
				return fmt.Errorf("configuration: %w", opts.cfgErr)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.FeedsPath, "feeds", "", "feeds and keyword rules file (overrides FEEDS_CONFIG_PATH)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}
