package cmd

import (
	"io"
	"log/slog"
	"os"

	"nathanbeddoewebdev/usersync/cmd/commands/action"
	"nathanbeddoewebdev/usersync/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/usersync/cmd/commands/config"
	"nathanbeddoewebdev/usersync/cmd/commands/history"
	"nathanbeddoewebdev/usersync/cmd/commands/queue"
	synccmd "nathanbeddoewebdev/usersync/cmd/commands/sync"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "usersync",
		Short: "Keep local user actions in step with a remote user service",
		Long: `usersync records user actions locally and synchronizes them with a
remote user service. Actions queued while a signed-in user is offline are
kept on disk and posted in order on the next sync; fetched user state never
overwrites actions the server has not confirmed yet. Actions queued while
signed out belong to the anonymous session and are discarded when a user
signs in.

Quick start:
  usersync config set endpoint https://api.example.com
  usersync auth login alice            # Store a session token
  usersync action add track.liked      # Queue and post an action
  usersync sync --fetch                # Refresh the user state`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			configureLogging(cmd.ErrOrStderr(), verbose)
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log synchronization details to stderr")

	cmd.AddCommand(action.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(history.NewCommand())
	cmd.AddCommand(queue.NewCommand())
	cmd.AddCommand(synccmd.NewCommand())

	return cmd
}

// configureLogging installs the process-wide logger. Only warnings are
// shown unless verbose is set.
func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
