package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jrhy/board"
	"github.com/jrhy/board/endpoint"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Backend    string
	Path       string
	As         string
	Verbose    bool

	// persist, when set, replaces the configured backend.
	persist board.Persist
}

// NewRootCommand creates the root command for the msgboard CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "msgboard",
		Short: "msgboard - message board over a key-value store",
		Long: `A message board whose feed, threads and friend sets are laid out as
individually keyed cells in a plain key-value store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "msgboard.yaml", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "override backend (memory|file|leveldb|pebble|s3)")
	cmd.PersistentFlags().StringVar(&opts.Path, "path", "", "override backend path")
	cmd.PersistentFlags().StringVar(&opts.As, "as", "", "identity to act as (40 hex digits)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newInitCommand(opts))
	cmd.AddCommand(newLimitCommand(opts))
	cmd.AddCommand(newPostCommand(opts))
	cmd.AddCommand(newBroadcastsCommand(opts))
	cmd.AddCommand(newSendCommand(opts))
	cmd.AddCommand(newMessagesCommand(opts))
	cmd.AddCommand(newFriendsCommand(opts))

	return cmd
}

func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) caller() (board.Identity, error) {
	if o.As == "" {
		return board.Identity{}, fmt.Errorf("--as is required")
	}
	return board.ParseIdentity(o.As)
}

// open resolves the configuration and backend. The returned closer must
// be called when the command is done.
func (o *RootOptions) open(cmd *cobra.Command) (*board.Config, io.Closer, error) {
	cfg, err := LoadConfig(o.ConfigPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return nil, nil, err
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.Path != "" {
		cfg.Path = o.Path
	}
	p, closer := o.persist, io.Closer(nopCloser{})
	if p == nil {
		p, closer, err = cfg.openPersist()
		if err != nil {
			return nil, nil, err
		}
	}
	bc, err := cfg.boardConfig(p)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	bc.Logger = o.logger(cmd)
	return bc, closer, nil
}

// withEndpoint attaches to the configured board as the --as identity.
// Reads do not need an identity; they run as the zero identity.
func (o *RootOptions) withEndpoint(cmd *cobra.Command, needCaller bool, f func(context.Context, *endpoint.Endpoint) error) error {
	var caller board.Identity
	if needCaller || o.As != "" {
		var err error
		caller, err = o.caller()
		if err != nil {
			return err
		}
	}
	bc, closer, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()
	ctx := commandContext(cmd)
	e, err := endpoint.Attach(ctx, bc, caller)
	if err != nil {
		return err
	}
	return f(ctx, e)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
