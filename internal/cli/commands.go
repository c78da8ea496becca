package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jrhy/board"
	"github.com/jrhy/board/endpoint"
)

func newInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init <char-limit>",
		Short: "Initialise a board owned by the --as identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("char limit: %w", err)
			}
			caller, err := opts.caller()
			if err != nil {
				return err
			}
			bc, closer, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()
			e, err := endpoint.Deploy(commandContext(cmd), bc, caller, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialised board owned by %s\n", e.Board().Owner())
			return nil
		},
	}
}

func newLimitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "limit",
		Short: "Show the board's char limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEndpoint(cmd, false, func(ctx context.Context, e *endpoint.Endpoint) error {
				limit, err := e.GetCharLimit(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), limit)
				return nil
			})
		},
	}
}

func newPostCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "post <message>",
		Short: "Broadcast a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEndpoint(cmd, true, func(ctx context.Context, e *endpoint.Endpoint) error {
				return report(cmd, e.Post(ctx, args[0]))
			})
		},
	}
}

func newSendCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "send <to> <message>",
		Short: "Send a message to one identity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := board.ParseIdentity(args[0])
			if err != nil {
				return err
			}
			return opts.withEndpoint(cmd, true, func(ctx context.Context, e *endpoint.Endpoint) error {
				return report(cmd, e.Send(ctx, to, args[1]))
			})
		},
	}
}

func report(cmd *cobra.Command, ok bool) error {
	fmt.Fprintln(cmd.OutOrStdout(), ok)
	if !ok {
		return fmt.Errorf("message was not stored")
	}
	return nil
}

func newBroadcastsCommand(opts *RootOptions) *cobra.Command {
	var k uint32
	var index int64
	cmd := &cobra.Command{
		Use:   "broadcasts",
		Short: "Show recent broadcast messages, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEndpoint(cmd, false, func(ctx context.Context, e *endpoint.Endpoint) error {
				if index >= 0 {
					s, err := e.GetBroadcastMessageByIndex(ctx, uint32(index))
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), s)
					return nil
				}
				b, err := e.GetBroadcastMessages(ctx, k)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			})
		},
	}
	cmd.Flags().Uint32VarP(&k, "count", "k", 10, "maximum number of messages")
	cmd.Flags().Int64Var(&index, "index", -1, "show only the message this many before the most recent")
	return cmd
}

func newMessagesCommand(opts *RootOptions) *cobra.Command {
	var k uint32
	var index int64
	cmd := &cobra.Command{
		Use:   "messages <a> <b>",
		Short: "Show recent messages between two identities, most recent first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := board.ParseIdentity(args[0])
			if err != nil {
				return err
			}
			b, err := board.ParseIdentity(args[1])
			if err != nil {
				return err
			}
			return opts.withEndpoint(cmd, false, func(ctx context.Context, e *endpoint.Endpoint) error {
				if index >= 0 {
					s, err := e.GetMessageByIndex(ctx, a, b, uint32(index))
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), s)
					return nil
				}
				out, err := e.GetMessages(ctx, a, b, k)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			})
		},
	}
	cmd.Flags().Uint32VarP(&k, "count", "k", 10, "maximum number of messages")
	cmd.Flags().Int64Var(&index, "index", -1, "show only the message this many before the most recent")
	return cmd
}

func newFriendsCommand(opts *RootOptions) *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "friends <person>",
		Short: "Show everyone a person has exchanged messages with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			person, err := board.ParseIdentity(args[0])
			if err != nil {
				return err
			}
			return opts.withEndpoint(cmd, false, func(ctx context.Context, e *endpoint.Endpoint) error {
				if text {
					s, err := e.GetFriendsAsString(ctx, person)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), s)
					return nil
				}
				b, err := e.GetFriends(ctx, person)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "print as space-separated text")
	return cmd
}
