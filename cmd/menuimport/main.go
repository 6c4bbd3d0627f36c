package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/tablecraft/menu-importer/constants"
	"github.com/tablecraft/menu-importer/internal/common"
	"github.com/tablecraft/menu-importer/internal/entity"
	"github.com/tablecraft/menu-importer/internal/llm/openai"
	"github.com/tablecraft/menu-importer/internal/menuextract"
	"github.com/tablecraft/menu-importer/internal/pipeline"
	"github.com/tablecraft/menu-importer/internal/repository"
)

// menuimport runs the whole pipeline on a local file against a sqlite job
// store and prints the resulting diff summary. Useful for trying a menu
// document without standing up Postgres or the queue.
func main() {
	var (
		filePath = flag.String("file", "", "path to the menu document")
		format   = flag.String("format", "", "declared format (defaults from the file extension)")
		menuPath = flag.String("menu", "", "optional JSON snapshot of the existing menu")
		dbPath   = flag.String("db", "menuimport.db", "sqlite job store path")
		storeRef = flag.String("store", "local", "store reference recorded on the job")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if *filePath == "" {
		logger.Error("usage", "cmd", "menuimport -file <path> [-format FMT] [-menu snapshot.json]")
		os.Exit(2)
	}

	declared := constants.FileFormat(*format)
	if *format == "" {
		declared = constants.MapExtToFormat(filepath.Ext(*filePath))
	}
	if declared == "" {
		logger.Error("cannot infer format from extension; pass -format", "file", *filePath)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		logger.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}

	db, err := repository.OpenSQLite(*dbPath, logger)
	if err != nil {
		logger.Error("open job store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	jobs := repository.NewSQLiteJobRepository(db, logger)
	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	dir, base := filepath.Split(*filePath)
	if dir == "" {
		dir = "."
	}

	proc := pipeline.NewProcessor(
		logger,
		pipeline.Config{
			Model:           cfg.LLM.Model,
			SchemaCapable:   cfg.LLM.SchemaCapable,
			PipelineTimeout: cfg.Import.PipelineTimeout,
			ErrorMessageMax: cfg.Import.ErrorMessageMax,
		},
		jobs,
		repository.NewFSFileSource(dir),
		&repository.JSONMenuProvider{Path: *menuPath},
		menuextract.NewEngine(client, logger),
	)

	ctx := context.Background()
	job := &entity.ImportJob{
		StoreRef: *storeRef,
		FileKey:  base,
		Format:   declared,
	}
	if err := jobs.Create(ctx, job); err != nil {
		logger.Error("create job", "error", err)
		os.Exit(1)
	}
	if err := proc.ProcessImportJob(ctx, job.ID); err != nil {
		logger.Error("pipeline failed", "job_id", job.ID, "error", err)
		os.Exit(1)
	}

	done, err := jobs.GetByID(ctx, job.ID)
	if err != nil {
		logger.Error("load job", "error", err)
		os.Exit(1)
	}
	printSummary(done)
}

func printSummary(job *entity.ImportJob) {
	fmt.Printf("job %s: %s\n", job.ID, job.Status)
	if job.Status == constants.ImportStatusFailed {
		if job.ErrorMessage != nil {
			fmt.Printf("error: %s\n", *job.ErrorMessage)
		}
		return
	}

	var data entity.MenuComparisonData
	if err := json.Unmarshal(job.ComparisonData, &data); err != nil {
		fmt.Printf("comparison data unreadable: %v\n", err)
		return
	}

	s := data.Summary
	fmt.Printf("categories: %d total, %d new, %d updated\n", s.TotalCategories, s.NewCategories, s.UpdatedCategories)
	fmt.Printf("items:      %d total, %d new, %d updated\n", s.TotalItems, s.NewItems, s.UpdatedItems)
	fmt.Printf("options:    %d total, %d new, %d updated\n", s.TotalOptionGroups, s.NewOptionGroups, s.UpdatedOptionGroups)

	for _, c := range data.Categories {
		fmt.Printf("  [%s] %s (score %.2f)\n", c.Action, c.Extracted.Name, c.MatchScore)
		for _, it := range c.Items {
			fmt.Printf("    [%s] %s %d (score %.2f)\n", it.Action, it.Extracted.Name, it.Extracted.Price, it.MatchScore)
			for _, ch := range it.Changes {
				fmt.Printf("      %s: %v -> %v\n", ch.Field, ch.OldValue, ch.NewValue)
			}
		}
	}
}
