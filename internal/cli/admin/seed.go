package admin

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/cloo-solutions/chavis/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedItem is one entry of a seed file.
type SeedItem struct {
	Keywords      []string `yaml:"keywords"`
	Answer        string   `yaml:"answer"`
	ReferenceLink string   `yaml:"referenceLink"`
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load knowledge items from a YAML file",
		Long: `Adds every item of a YAML list through the administration service, so ids
and vector documents are assigned as for items added over the API.

Example seed.yaml:
  - keywords: [printer, 프린터]
    answer: 프린터는 2층 복도에 있습니다.
    referenceLink: https://wiki.example.com/office`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}

	cmd.Flags().StringP("file", "f", "", "Seed file (YAML)")
	cmd.Flags().Bool("if-empty", false, "Only seed when the knowledge store is empty")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations")
	_ = cmd.MarkFlagRequired("file")
	addBackendFlags(cmd.Flags())

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	b, err := buildBackend(ctx, cfg, !noMigrate)
	if err != nil {
		return err
	}
	defer b.Close()

	svcs := newServices(b, cfg)

	file, _ := cmd.Flags().GetString("file")
	ifEmpty, _ := cmd.Flags().GetBool("if-empty")
	if ifEmpty {
		return bootstrapSeed(ctx, svcs, file)
	}

	items, err := LoadSeedFile(file)
	if err != nil {
		return err
	}
	added, err := seedKnowledge(ctx, svcs.knowledge, items)
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d of %d items\n", added, len(items))
	return err
}

// LoadSeedFile parses a YAML list of seed items.
func LoadSeedFile(path string) ([]SeedItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var items []SeedItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return items, nil
}

type knowledgeAdder interface {
	Add(ctx context.Context, input service.AddInput) (*domain.KnowledgeItem, error)
}

// seedKnowledge adds items in file order and stops at the first failure.
func seedKnowledge(ctx context.Context, svc knowledgeAdder, items []SeedItem) (int, error) {
	for i, item := range items {
		created, err := svc.Add(ctx, service.AddInput{
			Keywords:      item.Keywords,
			Answer:        item.Answer,
			ReferenceLink: item.ReferenceLink,
		})
		if err != nil {
			return i, fmt.Errorf("seed item %d: %w", i+1, err)
		}
		log.Printf("seed: added knowledge item %s", created.ID)
	}
	return len(items), nil
}

// bootstrapSeed seeds from path only when the knowledge store has no items.
func bootstrapSeed(ctx context.Context, svcs *services, path string) error {
	existing, err := svcs.knowledge.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Printf("bootstrap: knowledge store has %d items, skipping seed", len(existing))
		return nil
	}

	items, err := LoadSeedFile(path)
	if err != nil {
		return err
	}
	added, err := seedKnowledge(ctx, svcs.knowledge, items)
	if err != nil {
		return err
	}
	log.Printf("bootstrap: seeded %d knowledge items from %s", added, path)
	return nil
}
