package queue

import (
	"fmt"

	"nathanbeddoewebdev/usersync/internal/actionstore"

	"github.com/spf13/cobra"
)

func ClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard every queued action",
		Long: `Discard every queued action without posting it.

Example:
  usersync queue clear`,
		Args:         cobra.NoArgs,
		RunE:         runClear,
		SilenceUsage: true,
	}

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	repo, err := actionstore.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	actions, err := repo.ListAll()
	if err != nil {
		return err
	}
	if err := repo.ClearAll(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Discarded %d queued action(s).\n", len(actions))
	return nil
}
