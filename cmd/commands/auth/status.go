package auth

import (
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/usersync/internal/config"
	"nathanbeddoewebdev/usersync/internal/fetchcache"
	"nathanbeddoewebdev/usersync/internal/remote"
	"nathanbeddoewebdev/usersync/internal/services/auth"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user",
		Long: `Show the signed-in user, whether a token is stored for them and when
their state was last fetched.

Example:
  usersync auth status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			if cfg.UserID == "" {
				fmt.Fprintln(out, "anonymous: no user signed in")
				return nil
			}

			_, err = auth.DefaultStore().GetToken(cfg.UserID)
			switch {
			case err == nil:
				fmt.Fprintf(out, "%s: logged in\n", cfg.UserID)
			case errors.Is(err, auth.ErrTokenNotFound):
				fmt.Fprintf(out, "%s: no stored token\n", cfg.UserID)
			default:
				fmt.Fprintf(out, "%s: error (%v)\n", cfg.UserID, err)
			}

			client := remote.New(cfg.Endpoint, remote.WithCache(fetchcache.WithMaxAge(fetchcache.DefaultDir(), cfg.CacheMaxAge())))
			if _, fetchedAt, ok := client.CachedUser(cfg.UserID); ok {
				fmt.Fprintf(out, "last fetched: %s\n", fetchedAt.Local().Format(time.DateTime))
			} else {
				fmt.Fprintln(out, "last fetched: never")
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
