package auth

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the signed-in user",
		Long: `Manage the signed-in user.

Logging in stores the session token in the local keychain and fetches the
user's state. Switching users or starting an anonymous session discards
actions queued for the previous user.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(AnonymousCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
