package action

import "github.com/spf13/cobra"

// NewCommand returns the "action" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Record user actions",
		Long: "Record actions that change the user's state.\n\n" +
			"Actions are queued locally and posted to the user service for the\n" +
			"signed-in user. Queued actions survive restarts but not a change of user.",
		SilenceUsage: true,
	}

	cmd.AddCommand(AddCommand())

	return cmd
}
