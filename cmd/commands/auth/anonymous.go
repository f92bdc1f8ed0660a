package auth

import (
	"context"
	"fmt"

	"nathanbeddoewebdev/usersync/internal/app"
	"nathanbeddoewebdev/usersync/internal/coordinator"

	"github.com/spf13/cobra"
)

func AnonymousCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anonymous",
		Short: "Continue without a signed-in user",
		Long: `Start an anonymous session. Actions queued while anonymous stay on this
machine and are never posted; signing in as a user discards them. If a
user was signed in, their queued actions and cached state are discarded.

Example:
  usersync auth anonymous`,
		Args:         cobra.NoArgs,
		RunE:         runAnonymous,
		SilenceUsage: true,
	}

	return cmd
}

func runAnonymous(cmd *cobra.Command, args []string) error {
	rt, err := app.Open(app.Options{Command: cmd.CommandPath()})
	if err != nil {
		return err
	}
	defer rt.Close()

	previous := rt.Config.UserID

	ctx, cancel := context.WithTimeout(cmd.Context(), app.DefaultTimeout)
	defer cancel()
	err = rt.Run(ctx, func(ctx context.Context, c *coordinator.Coordinator) error {
		c.StartAnonymousSession()
		return nil
	})
	if err != nil {
		return err
	}

	rt.Config.UserID = ""
	if err := rt.Config.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Started anonymous session.")
	if previous != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Discarded local data of %s.\n", previous)
	}
	return nil
}
