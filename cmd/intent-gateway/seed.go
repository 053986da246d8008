// ABOUTME: Seed subcommand that bulk-loads knowledge entries from YAML
// ABOUTME: Reads question/answer pairs and upserts them into the store

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iapetus-ai/intent-gateway/internal/config"
	"github.com/iapetus-ai/intent-gateway/internal/store"
)

type seedEntry struct {
	ID       string `yaml:"id"`
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type seedFile struct {
	Entries []seedEntry `yaml:"entries"`
}

func runSeed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	filePath := fs.String("file", "", "YAML file of knowledge entries")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *filePath == "" {
		return fmt.Errorf("seed requires --file")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parsing seed file: %w", err)
	}
	if len(seed.Entries) == 0 {
		return fmt.Errorf("seed file contains no entries")
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	var loaded int
	for _, e := range seed.Entries {
		if e.Question == "" || e.Answer == "" {
			logger.Warn("skipping incomplete seed entry", "id", e.ID, "question", e.Question)
			continue
		}
		entry := &store.KnowledgeEntry{
			ID:       e.ID,
			Question: e.Question,
			Answer:   e.Answer,
		}
		if err := st.PutKnowledgeEntry(ctx, entry); err != nil {
			return fmt.Errorf("saving entry %q: %w", e.Question, err)
		}
		loaded++
	}

	logger.Info("seed complete", "loaded", loaded, "skipped", len(seed.Entries)-loaded)
	fmt.Printf("Loaded %d knowledge entries into %s\n", loaded, cfg.Database.Path)
	return nil
}
