package client

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// UnansweredCmd groups the unanswered question log commands.
func UnansweredCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unanswered",
		Short: "Review questions the chatbot could not answer",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List unanswered questions in the order they were asked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runUnansweredList(cmd.Context(), NewAPIClientWithCmd(cmd), cmd.OutOrStdout(), outputJSON)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "delete <id>",
		Short:   "Remove a question from the log",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runDelete(cmd.Context(), NewAPIClientWithCmd(cmd), cmd.OutOrStdout(), "/unanswered/", args[0], outputJSON)
		},
	})

	return cmd
}

func runUnansweredList(ctx context.Context, api *APIClient, w io.Writer, outputJSON bool) error {
	var entries []Unanswered
	if err := api.Get(ctx, "/unanswered", &entries); err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if outputJSON {
		return printJSON(w, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No unanswered questions.")
		return nil
	}
	for _, q := range entries {
		fmt.Fprintf(w, "%s  %s  %s\n", q.CreatedAt, q.ID, q.Question)
	}
	return nil
}
