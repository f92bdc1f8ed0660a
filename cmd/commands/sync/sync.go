package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/usersync/internal/app"
	"nathanbeddoewebdev/usersync/internal/coordinator"

	"github.com/spf13/cobra"
)

// NewCommand returns the "sync" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Post queued actions and refresh the user",
		Long: `Post every queued action for the signed-in user.

With --fetch, request the latest user state instead. A fetch is turned into
a post while actions are still queued, so the server confirms them first
and the fetched state never overwrites unconfirmed local changes.

Examples:
  usersync sync
  usersync sync --fetch
  usersync sync --timeout 10s`,
		Args:         cobra.NoArgs,
		RunE:         runSync,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("fetch", false, "Fetch the latest user state")
	cmd.Flags().Duration("timeout", app.DefaultTimeout, "Give up waiting for the service after this long")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	fetch, _ := cmd.Flags().GetBool("fetch")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		return fmt.Errorf("--timeout must be greater than 0")
	}

	rt, err := app.Open(app.Options{Command: cmd.CommandPath()})
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	if !rt.Session.State().CanSync() {
		fmt.Fprintln(out, "Not signed in; queued actions stay on this machine.")
		fmt.Fprintln(out, "Run 'usersync auth login <user-id>' to sync.")
		return nil
	}

	report := rt.Track()
	var snap coordinator.Snapshot

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	err = rt.Run(ctx, func(ctx context.Context, c *coordinator.Coordinator) error {
		if fetch {
			c.RequestFetch()
		} else {
			c.NotifyActionsPosted()
		}
		if err := c.Settle(ctx); err != nil {
			return err
		}
		var err error
		snap, err = c.Snapshot(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("sync did not finish: %w", err)
	}

	lines := report.Lines()
	if len(lines) == 0 {
		lines = []string{"Nothing to sync."}
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))

	if u := rt.Session.State().User; u != nil && !u.UpdatedAt.IsZero() {
		fmt.Fprintf(out, "User %s updated %s.\n", u.ID, u.UpdatedAt.Local().Format(time.DateTime))
	}
	if len(snap.Pending) > 0 {
		fmt.Fprintf(out, "%d action(s) waiting to sync.\n", len(snap.Pending))
	}
	return nil
}
