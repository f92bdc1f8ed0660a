package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/usersync/internal/app"
	"nathanbeddoewebdev/usersync/internal/coordinator"
	"nathanbeddoewebdev/usersync/internal/services/auth"
	"nathanbeddoewebdev/usersync/internal/util"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <user-id>",
		Short: "Sign in as a user",
		Long: `Store a session token for a user and make them the signed-in user.

If another user was signed in, their queued actions are discarded.

Example:
  usersync auth login alice
  usersync auth login alice --token "$TOKEN"`,
		Args:         cobra.ExactArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("token", "", "Session token (optional, overrides prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	userID := strings.TrimSpace(args[0])
	if err := util.ValidateUserID(userID); err != nil {
		return err
	}

	token, _ := cmd.Flags().GetString("token")
	token = strings.TrimSpace(token)
	if token == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--token is required when stdin is not a terminal")
		}
		fmt.Fprint(cmd.OutOrStdout(), "Enter session token: ")
		bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		token = strings.TrimSpace(string(bytes))
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := auth.DefaultStore().SetToken(userID, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	rt, err := app.Open(app.Options{Command: cmd.CommandPath()})
	if err != nil {
		return err
	}
	defer rt.Close()
	report := rt.Track()
	previous := rt.Config.UserID

	ctx, cancel := context.WithTimeout(cmd.Context(), app.DefaultTimeout)
	defer cancel()
	err = rt.Run(ctx, func(ctx context.Context, c *coordinator.Coordinator) error {
		c.Authenticate(userID, token)
		return nil
	})
	if err != nil {
		return err
	}

	rt.Config.UserID = userID
	if err := rt.Config.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", userID)
	if previous != "" && previous != userID {
		fmt.Fprintf(cmd.OutOrStdout(), "Discarded local data of %s.\n", previous)
	}
	for _, line := range report.Lines() {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
