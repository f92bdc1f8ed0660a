package queue

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/usersync/internal/actionstore"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued actions",
		Long: `List queued actions in the order they will be posted.

Examples:
  usersync queue list
  usersync queue list -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	repo, err := actionstore.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	actions, err := repo.ListAll()
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(actions)
	}

	if len(actions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No queued actions.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tCREATED\tPAYLOAD")
	fmt.Fprintln(w, "--\t----\t-------\t-------")
	for _, a := range actions {
		payload := string(a.Payload)
		if payload == "" {
			payload = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			a.ID,
			a.Type,
			a.CreatedAt.Local().Format(time.DateTime),
			payload,
		)
	}
	w.Flush()
	return nil
}
