package queue

import "github.com/spf13/cobra"

// NewCommand returns the "queue" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect actions waiting to sync",
		Long: "Inspect and discard actions that have not been confirmed by the user\n" +
			"service yet.\n\n" +
			"Queued actions are stored locally in ~/.config/usersync/usersync.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ClearCommand())

	return cmd
}
