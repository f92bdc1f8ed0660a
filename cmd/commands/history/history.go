package history

import "github.com/spf13/cobra"

// NewCommand returns the "history" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View and manage sync history",
		Long: "View a local record of queued, posted and fetched state changes and\n" +
			"prune old entries.\n\n" +
			"History is stored locally in ~/.config/usersync/usersync.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
