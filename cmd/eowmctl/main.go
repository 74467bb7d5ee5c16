package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/eowm/eowm/internal/config"
	"github.com/eowm/eowm/internal/control/client"
	"github.com/eowm/eowm/internal/ui/tui"
)

var version = "dev"

// controller is the control client surface the commands use.
type controller interface {
	State(ctx context.Context) (client.State, error)
	SetWorkspace(ctx context.Context, index int) error
	Exec(ctx context.Context, op, arg string) error
	Reload(ctx context.Context) error
	Metrics(ctx context.Context) (client.Metrics, error)
	RecentEvents(ctx context.Context) ([]client.EventRecord, error)
}

type dialFunc func(socket string) (controller, error)

func dialSocket(socket string) (controller, error) {
	cli, err := client.New(socket)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return cli, nil
}

func main() {
	cmd := newRootCmd(dialSocket)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	socket  string
	timeout time.Duration
}

func newRootCmd(dial dialFunc) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "eowmctl",
		Short:         "Query and drive a running eowm window manager",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.socket, "socket", "", "path to eowm control socket")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 3*time.Second, "control request timeout")

	// withClient runs fn against a connected client under the request timeout.
	withClient := func(fn func(ctx context.Context, cli controller, out io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cli, err := dial(opts.socket)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if opts.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.timeout)
				defer cancel()
			}
			return fn(ctx, cli, cmd.OutOrStdout())
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "state",
			Short: "Print monitors, workspaces and managed windows",
			Args:  cobra.NoArgs,
			RunE: withClient(func(ctx context.Context, cli controller, out io.Writer) error {
				snap, err := cli.State(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(out, tui.Render(snap, nil))
				return nil
			}),
		},
		newWorkspaceCmd(withClient),
		newExecCmd(withClient),
		&cobra.Command{
			Use:   "reload",
			Short: "Trigger a live config reload",
			Args:  cobra.NoArgs,
			RunE: withClient(func(ctx context.Context, cli controller, out io.Writer) error {
				if err := cli.Reload(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "Reload requested")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "metrics",
			Short: "Print event and action counters",
			Args:  cobra.NoArgs,
			RunE: withClient(func(ctx context.Context, cli controller, out io.Writer) error {
				snap, err := cli.Metrics(ctx)
				if err != nil {
					return err
				}
				return printMetrics(out, snap)
			}),
		},
		&cobra.Command{
			Use:   "events",
			Short: "Print recently handled X events",
			Args:  cobra.NoArgs,
			RunE: withClient(func(ctx context.Context, cli controller, out io.Writer) error {
				events, err := cli.RecentEvents(ctx)
				if err != nil {
					return err
				}
				for _, ev := range events {
					line := fmt.Sprintf("%s %s", ev.Timestamp.Format("15:04:05.000"), ev.Detail)
					if ev.Error != "" {
						line += " (error: " + ev.Error + ")"
					}
					fmt.Fprintln(out, line)
				}
				return nil
			}),
		},
		newWatchCmd(opts, dial),
		newCheckCmd(),
	)
	return root
}

func newWorkspaceCmd(withClient func(func(context.Context, controller, io.Writer) error) func(*cobra.Command, []string) error) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "workspace <n>",
		Short: "Switch to workspace n (1-9)",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("workspace must be a number, got %q", args[0])
			}
			index = n
			return nil
		},
	}
	cmd.RunE = withClient(func(ctx context.Context, cli controller, out io.Writer) error {
		if err := cli.SetWorkspace(ctx, index); err != nil {
			return err
		}
		fmt.Fprintf(out, "Switched to workspace %d\n", index)
		return nil
	})
	return cmd
}

func newExecCmd(withClient func(func(context.Context, controller, io.Writer) error) func(*cobra.Command, []string) error) *cobra.Command {
	var op, arg string
	cmd := &cobra.Command{
		Use:   "exec <operation> [argument]",
		Short: "Run a key-bindable operation, e.g. exec column.move -1",
		Args:  cobra.RangeArgs(1, 2),
		PreRun: func(_ *cobra.Command, args []string) {
			op = args[0]
			if len(args) > 1 {
				arg = args[1]
			}
		},
	}
	cmd.RunE = withClient(func(ctx context.Context, cli controller, _ io.Writer) error {
		return cli.Exec(ctx, op, arg)
	})
	return cmd
}

func newWatchCmd(opts *rootOptions, dial dialFunc) *cobra.Command {
	var refresh time.Duration
	cmd := &cobra.Command{
		Use:     "watch",
		Aliases: []string{"tui"},
		Short:   "Launch the live dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli, err := dial(opts.socket)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			renderer := tui.New(cli, cmd.OutOrStdout())
			if refresh > 0 {
				renderer.Refresh = refresh
			}
			if err := renderer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&refresh, "refresh", 0, "dashboard refresh interval")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath == "" {
				return fmt.Errorf("check requires --config <path>")
			}
			if _, err := config.Load(configPath); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Configuration invalid: %v\n", err)
				return fmt.Errorf("configuration validation failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration OK")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to configuration file")
	return cmd
}

func printMetrics(out io.Writer, snap client.Metrics) error {
	if !snap.Enabled {
		fmt.Fprintln(out, "Metrics disabled")
		return nil
	}
	t := snap.Totals
	fmt.Fprintf(out, "Events: %d (errors %d)\n", t.Events, t.EventErrors)
	fmt.Fprintf(out, "Layout passes: %d\n", t.LayoutPasses)
	fmt.Fprintf(out, "Commands: %d (errors %d)\n", t.Commands, t.CommandErrors)
	fmt.Fprintf(out, "Protocol errors: %d\n", t.ProtocolErrors)
	fmt.Fprintf(out, "Windows managed: %d, unmanaged: %d\n", t.Managed, t.Unmanaged)

	events := append(snap.Events[:0:0], snap.Events...)
	sort.Slice(events, func(i, j int) bool { return events[i].Kind < events[j].Kind })
	if len(events) > 0 {
		fmt.Fprintln(out)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Event\tHandled\tErrors")
		for _, ev := range events {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", ev.Kind, ev.Handled, ev.Errors)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if len(snap.Actions) > 0 {
		fmt.Fprintln(out)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Action\tRuns")
		for _, a := range snap.Actions {
			fmt.Fprintf(tw, "%s\t%d\n", a.Action, a.Runs)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
