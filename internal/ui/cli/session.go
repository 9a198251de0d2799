package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewSessionCmd creates the "session" command group.
func NewSessionCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Track a working session and the diffs computed during it",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start a session for the workspace",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRuntime(cmd, global, func(ctx context.Context, rt *runtime) error {
					status, err := rt.app.StartSession(ctx)
					if err != nil {
						return err
					}
					return rt.printer.Session(status)
				})
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop the active session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRuntime(cmd, global, func(ctx context.Context, rt *runtime) error {
					status, err := rt.app.StopSession(ctx)
					if err != nil {
						return err
					}
					return rt.printer.Session(status)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the active session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRuntime(cmd, global, func(ctx context.Context, rt *runtime) error {
					status, err := rt.app.Status(ctx)
					if err != nil {
						return err
					}
					return rt.printer.Session(status)
				})
			},
		},
	)
	return cmd
}
