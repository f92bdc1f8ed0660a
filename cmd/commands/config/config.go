package config

import (
	"nathanbeddoewebdev/usersync/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage usersync configuration",
		Long: "View and modify persistent usersync settings.\n\n" +
			"Configuration is stored at ~/.config/usersync/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
