package action

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nathanbeddoewebdev/usersync/internal/app"
	"nathanbeddoewebdev/usersync/internal/coordinator"
	"nathanbeddoewebdev/usersync/internal/domain"
	"nathanbeddoewebdev/usersync/internal/util"

	"github.com/spf13/cobra"
)

func AddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <type>",
		Short: "Queue an action and post it if possible",
		Long: `Queue an action for the signed-in user and post it right away when
a session is available. If the post fails, the action stays queued for the
next sync. Actions added while signed out are discarded when a user signs
in.

Examples:
  usersync action add track.liked --payload '{"track":"t-42"}'
  usersync action add player.paused --local`,
		Args:         cobra.ExactArgs(1),
		RunE:         runAdd,
		SilenceUsage: true,
	}

	cmd.Flags().String("payload", "", "JSON payload for the action")
	cmd.Flags().Bool("local", false, "Observe the action locally without queueing it for the server")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	actionType := strings.TrimSpace(args[0])
	if err := util.ValidateActionType(actionType); err != nil {
		return err
	}

	var payload json.RawMessage
	raw, _ := cmd.Flags().GetString("payload")
	if raw = strings.TrimSpace(raw); raw != "" {
		if !json.Valid([]byte(raw)) {
			return fmt.Errorf("--payload is not valid JSON")
		}
		payload = json.RawMessage(raw)
	}

	a := domain.NewAction(actionType, payload)
	if local, _ := cmd.Flags().GetBool("local"); local {
		a.ShouldSynchronize = false
	}

	rt, err := app.Open(app.Options{Command: cmd.CommandPath()})
	if err != nil {
		return err
	}
	defer rt.Close()
	report := rt.Track()

	var snap coordinator.Snapshot
	ctx, cancel := context.WithTimeout(cmd.Context(), app.DefaultTimeout)
	defer cancel()
	err = rt.Run(ctx, func(ctx context.Context, c *coordinator.Coordinator) error {
		c.Enqueue(a)
		if err := c.Settle(ctx); err != nil {
			return err
		}
		var err error
		snap, err = c.Snapshot(ctx)
		return err
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !a.ShouldSynchronize {
		fmt.Fprintf(out, "Observed %s (not queued).\n", a.Type)
		return nil
	}

	fmt.Fprintf(out, "Queued %s (%s).\n", a.Type, a.ID)
	for _, line := range report.Lines() {
		fmt.Fprintln(out, line)
	}
	if len(snap.Pending) > 0 {
		fmt.Fprintf(out, "%d action(s) waiting to sync.\n", len(snap.Pending))
	}
	return nil
}
