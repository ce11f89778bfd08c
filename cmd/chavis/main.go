package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/chavis/internal/cli"
	"github.com/cloo-solutions/chavis/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "chavis",
		Short: "CHAVIS CLI - internal knowledge guide chatbot",
		Long: `CHAVIS CLI asks the chatbot questions and manages its curated knowledge.

Environment variables:
  CHAVIS_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.KnowledgeCmd())
	rootCmd.AddCommand(client.UnansweredCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
