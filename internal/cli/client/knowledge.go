package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// KnowledgeCmd groups the knowledge administration commands.
func KnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "knowledge",
		Short:   "Manage curated knowledge items",
		Aliases: []string{"kb"},
	}

	cmd.AddCommand(knowledgeListCmd())
	cmd.AddCommand(knowledgeGetCmd())
	cmd.AddCommand(knowledgeAddCmd())
	cmd.AddCommand(knowledgeUpdateCmd())
	cmd.AddCommand(knowledgeDeleteCmd())

	return cmd
}

func knowledgeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List knowledge items in store order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runKnowledgeList(cmd.Context(), NewAPIClientWithCmd(cmd), cmd.OutOrStdout(), outputJSON)
		},
	}
}

func runKnowledgeList(ctx context.Context, api *APIClient, w io.Writer, outputJSON bool) error {
	var items []Knowledge
	if err := api.Get(ctx, "/knowledge", &items); err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if outputJSON {
		return printJSON(w, items)
	}

	if len(items) == 0 {
		fmt.Fprintln(w, "No knowledge items found.")
		return nil
	}

	fmt.Fprintf(w, "Found %d items:\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(w, "%s. [%s] %s\n", item.ID, strings.Join(item.Keywords, ", "), truncate(item.Answer, 60))
		if item.ReferenceLink != "" {
			fmt.Fprintf(w, "   Reference: %s\n", item.ReferenceLink)
		}
		if i < len(items)-1 {
			fmt.Fprintln(w, strings.Repeat("-", 40))
		}
	}
	return nil
}

func knowledgeGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show a knowledge item",
		Aliases: []string{"view"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runKnowledgeGet(cmd.Context(), NewAPIClientWithCmd(cmd), cmd.OutOrStdout(), args[0], outputJSON)
		},
	}
}

func runKnowledgeGet(ctx context.Context, api *APIClient, w io.Writer, id string, outputJSON bool) error {
	var item Knowledge
	if err := api.Get(ctx, "/knowledge/"+id, &item); err != nil {
		return fmt.Errorf("failed to get knowledge: %w", err)
	}

	if outputJSON {
		return printJSON(w, item)
	}
	printKnowledge(w, &item)
	return nil
}

func printKnowledge(w io.Writer, item *Knowledge) {
	fmt.Fprintf(w, "ID: %s\n", item.ID)
	fmt.Fprintf(w, "Keywords: %s\n", strings.Join(item.Keywords, ", "))
	if item.ReferenceLink != "" {
		fmt.Fprintf(w, "Reference: %s\n", item.ReferenceLink)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, item.Answer)
}

func knowledgeAddCmd() *cobra.Command {
	var (
		keywords []string
		answer   string
		link     string
		file     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a knowledge item",
		Long: `Add a knowledge item from flags, or a JSON array of items from a file or stdin.

Examples:
  chavis knowledge add --keyword printer --keyword 프린터 --answer "2층 복도에 있습니다."
  chavis knowledge add --file items.json
  cat items.json | chavis knowledge add --file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			api := NewAPIClientWithCmd(cmd)
			if file != "" {
				return runKnowledgeAddBatch(cmd.Context(), api, cmd.InOrStdin(), cmd.OutOrStdout(), file, outputJSON)
			}
			req := CreateKnowledgeRequest{Keywords: keywords, Answer: answer, ReferenceLink: link}
			return runKnowledgeAdd(cmd.Context(), api, cmd.OutOrStdout(), req, outputJSON)
		},
	}

	cmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "Keyword (repeatable)")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "Answer text")
	cmd.Flags().StringVarP(&link, "link", "l", "", "Reference link")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON array of items ('-' for stdin)")

	return cmd
}

func runKnowledgeAdd(ctx context.Context, api *APIClient, w io.Writer, req CreateKnowledgeRequest, outputJSON bool) error {
	if len(req.Keywords) == 0 {
		return fmt.Errorf("at least one --keyword is required")
	}
	if strings.TrimSpace(req.Answer) == "" {
		return fmt.Errorf("--answer is required")
	}

	var item Knowledge
	if err := api.Post(ctx, "/knowledge", req, &item); err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	if outputJSON {
		return printJSON(w, item)
	}
	fmt.Fprintf(w, "Added knowledge item %s\n", item.ID)
	return nil
}

// BatchResult represents a single result in a batch operation.
type BatchResult struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BatchResponse summarizes a batch operation.
type BatchResponse struct {
	Results   []BatchResult `json:"results"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

const maxBatchSize = 100

func runKnowledgeAddBatch(ctx context.Context, api *APIClient, stdin io.Reader, w io.Writer, file string, outputJSON bool) error {
	var (
		input []byte
		err   error
	)
	if file == "-" {
		input, err = io.ReadAll(stdin)
	} else {
		input, err = os.ReadFile(file)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var reqs []CreateKnowledgeRequest
	if err := json.Unmarshal(input, &reqs); err != nil {
		return fmt.Errorf("invalid JSON array: %w", err)
	}
	if len(reqs) == 0 {
		return fmt.Errorf("no items provided")
	}
	if len(reqs) > maxBatchSize {
		return fmt.Errorf("batch size %d exceeds maximum of %d", len(reqs), maxBatchSize)
	}

	resp := BatchResponse{Total: len(reqs)}
	for _, req := range reqs {
		var item Knowledge
		if err := api.Post(ctx, "/knowledge", req, &item); err != nil {
			resp.Failed++
			resp.Results = append(resp.Results, BatchResult{Status: "error", Error: err.Error()})
			continue
		}
		resp.Succeeded++
		resp.Results = append(resp.Results, BatchResult{ID: item.ID, Status: "created"})
	}

	if outputJSON {
		if err := printJSON(w, resp); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Added %d of %d items\n", resp.Succeeded, resp.Total)
		for i, r := range resp.Results {
			if r.Error != "" {
				fmt.Fprintf(w, "  item %d: %s\n", i+1, r.Error)
			}
		}
	}

	if resp.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", resp.Failed, resp.Total)
	}
	return nil
}

func knowledgeUpdateCmd() *cobra.Command {
	var (
		keywords []string
		answer   string
		link     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a knowledge item",
		Long: `Only the flags given are changed.

Examples:
  chavis knowledge update 3 --answer "3층으로 이전했습니다."
  chavis knowledge update 3 --link ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			var req UpdateKnowledgeRequest
			if cmd.Flags().Changed("keyword") {
				req.Keywords = keywords
			}
			if cmd.Flags().Changed("answer") {
				req.Answer = &answer
			}
			if cmd.Flags().Changed("link") {
				req.ReferenceLink = &link
			}

			return runKnowledgeUpdate(cmd.Context(), NewAPIClientWithCmd(cmd), cmd.OutOrStdout(), args[0], req, outputJSON)
		},
	}

	cmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "Replacement keyword (repeatable)")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "New answer text")
	cmd.Flags().StringVarP(&link, "link", "l", "", "New reference link")

	return cmd
}

func runKnowledgeUpdate(ctx context.Context, api *APIClient, w io.Writer, id string, req UpdateKnowledgeRequest, outputJSON bool) error {
	if req.Keywords == nil && req.Answer == nil && req.ReferenceLink == nil {
		return fmt.Errorf("nothing to update: pass --keyword, --answer or --link")
	}

	var item Knowledge
	if err := api.Put(ctx, "/knowledge/"+id, req, &item); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if outputJSON {
		return printJSON(w, item)
	}
	printKnowledge(w, &item)
	return nil
}

func knowledgeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a knowledge item",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runDelete(cmd.Context(), NewAPIClientWithCmd(cmd), cmd.OutOrStdout(), "/knowledge/", args[0], outputJSON)
		},
	}
}

func runDelete(ctx context.Context, api *APIClient, w io.Writer, prefix, id string, outputJSON bool) error {
	var resp DeleteResponse
	if err := api.Delete(ctx, prefix+id, &resp); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if outputJSON {
		return printJSON(w, resp)
	}
	fmt.Fprintf(w, "Deleted %s\n", resp.ID)
	return nil
}
