package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type chatRequest struct {
	Question string `json:"question"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the chatbot a question",
		Long: `Sends a question to the chat endpoint and prints the answer.

Examples:
  chavis ask "프린터 어디 있어요?"
  chavis ask where is the printer --output`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api := NewAPIClientWithCmd(cmd)
			return runAsk(cmd.Context(), api, cmd.OutOrStdout(), strings.Join(args, " "), outputJSON)
		},
	}

	return cmd
}

func runAsk(ctx context.Context, api *APIClient, w io.Writer, question string, outputJSON bool) error {
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question must not be empty")
	}

	var resp ChatResponse
	if err := api.Post(ctx, "/chat", chatRequest{Question: question}, &resp); err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if outputJSON {
		return printJSON(w, resp)
	}

	fmt.Fprintln(w, resp.Answer)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Type: %s\n", resp.Type)
	if resp.MatchedKeyword != "" {
		fmt.Fprintf(w, "Matched keyword: %s\n", resp.MatchedKeyword)
	}
	if resp.ReferenceLink != "" {
		fmt.Fprintf(w, "Reference: %s\n", resp.ReferenceLink)
	}
	for i, src := range resp.Sources {
		fmt.Fprintf(w, "Source %d: %s\n", i+1, truncate(src.Text, 80))
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max]) + "..."
}
