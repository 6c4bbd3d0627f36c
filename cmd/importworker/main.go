package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/tablecraft/menu-importer/internal/common"
	"github.com/tablecraft/menu-importer/internal/llm/openai"
	"github.com/tablecraft/menu-importer/internal/menuextract"
	"github.com/tablecraft/menu-importer/internal/pipeline"
	"github.com/tablecraft/menu-importer/internal/repository"
)

// importworker processes import jobs given as arguments against the
// Postgres job store. The queue in front of it decides when a job id
// arrives here.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		logger.Error("usage", "cmd", "importworker <job-id-uuid> [...]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout); err != nil {
		logger.Error("db health failed", "error", err)
		os.Exit(1)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	proc := pipeline.NewProcessor(
		logger,
		pipeline.Config{
			Model:           cfg.LLM.Model,
			SchemaCapable:   cfg.LLM.SchemaCapable,
			PipelineTimeout: cfg.Import.PipelineTimeout,
			ErrorMessageMax: cfg.Import.ErrorMessageMax,
		},
		repository.NewPostgresJobRepository(pool, logger),
		repository.NewFSFileSource(uploadDir),
		repository.NewPostgresMenuProvider(pool, logger),
		menuextract.NewEngine(client, logger),
	)

	exitCode := 0
	for _, arg := range os.Args[1:] {
		jobID, err := uuid.Parse(arg)
		if err != nil {
			logger.Error("invalid job id (must be UUID)", "arg", arg, "error", err)
			exitCode = 2
			continue
		}
		if err := proc.ProcessImportJob(ctx, jobID); err != nil {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}
