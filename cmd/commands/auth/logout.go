package auth

import (
	"context"
	"errors"
	"fmt"

	"nathanbeddoewebdev/usersync/internal/app"
	"nathanbeddoewebdev/usersync/internal/coordinator"
	"nathanbeddoewebdev/usersync/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard local data",
		Long: `Sign out the current user, delete their stored token and discard every
queued action and cached user state.

Example:
  usersync auth logout`,
		Args:         cobra.NoArgs,
		RunE:         runLogout,
		SilenceUsage: true,
	}

	return cmd
}

func runLogout(cmd *cobra.Command, args []string) error {
	rt, err := app.Open(app.Options{Command: cmd.CommandPath()})
	if err != nil {
		return err
	}
	defer rt.Close()

	previous := rt.Config.UserID

	ctx, cancel := context.WithTimeout(cmd.Context(), app.DefaultTimeout)
	defer cancel()
	err = rt.Run(ctx, func(ctx context.Context, c *coordinator.Coordinator) error {
		c.Logout()
		return nil
	})
	if err != nil {
		return err
	}

	if previous != "" {
		if err := auth.DefaultStore().DeleteToken(previous); err != nil && !errors.Is(err, auth.ErrTokenNotFound) {
			return fmt.Errorf("failed to delete token: %w", err)
		}
	}
	rt.Config.UserID = ""
	if err := rt.Config.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if previous == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out. Local data discarded.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged out %s. Local data discarded.\n", previous)
	return nil
}
