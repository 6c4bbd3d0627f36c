package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tablecraft/menu-importer/constants"
	"github.com/tablecraft/menu-importer/internal/common"
	"github.com/tablecraft/menu-importer/internal/entity"
	"github.com/tablecraft/menu-importer/internal/extract"
	"github.com/tablecraft/menu-importer/internal/menucompare"
	"github.com/tablecraft/menu-importer/internal/menuextract"
	"github.com/tablecraft/menu-importer/internal/repository"
)

// maxPromptNames caps the existing-names context embedded in prompts.
const maxPromptNames = 200

// MenuExtractor is the extraction engine boundary, narrowed for testability.
type MenuExtractor interface {
	ExtractMenu(ctx context.Context, text string, opts menuextract.Options) (entity.ExtractedMenuData, error)
}

// Config holds per-run pipeline behavior.
type Config struct {
	Model           string
	SchemaCapable   bool
	PipelineTimeout time.Duration
	ErrorMessageMax int
}

// Processor orchestrates one import job: fetch bytes -> text extraction ->
// snapshot fetch -> menu extraction -> comparison -> persist READY. Any step
// failing marks the job FAILED; a job is never left stuck in PROCESSING.
type Processor struct {
	Logger *slog.Logger
	Cfg    Config
	Jobs   repository.ImportJobRepository
	Files  repository.FileSource
	Menus  repository.MenuProvider
	Engine MenuExtractor
}

func NewProcessor(logger *slog.Logger, cfg Config, jobs repository.ImportJobRepository, files repository.FileSource, menus repository.MenuProvider, engine MenuExtractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PipelineTimeout <= 0 {
		cfg.PipelineTimeout = 5 * time.Minute
	}
	if cfg.ErrorMessageMax <= 0 {
		cfg.ErrorMessageMax = 500
	}
	return &Processor{Logger: logger, Cfg: cfg, Jobs: jobs, Files: files, Menus: menus, Engine: engine}
}

// ProcessImportJob is the worker entry point. Its contract is the job row:
// the returned error exists for worker logging only. A job found in any
// state other than PROCESSING is a no-op, which makes duplicate triggers
// harmless.
func (p *Processor) ProcessImportJob(ctx context.Context, jobID uuid.UUID) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.Cfg.PipelineTimeout)
	defer cancel()

	job, err := p.Jobs.GetByID(ctx, jobID)
	if err != nil {
		p.Logger.Error("pipeline.load_job.failed", "job_id", jobID, "err", err)
		return err
	}
	if job.Status != constants.ImportStatusProcessing {
		p.Logger.Info("pipeline.skip", "job_id", jobID, "status", job.Status)
		return nil
	}

	comparison, err := p.run(ctx, job)
	if err != nil {
		return p.markFailed(ctx, jobID, start, err)
	}

	raw, err := json.Marshal(comparison)
	if err != nil {
		return p.markFailed(ctx, jobID, start, fmt.Errorf("encode comparison: %w", err))
	}
	claimed, err := p.Jobs.SetReady(ctx, jobID, raw)
	if err != nil {
		return err
	}
	if !claimed {
		// Another processor got here first; its result stands.
		p.Logger.Warn("pipeline.ready.lost_race", "job_id", jobID)
		return nil
	}

	p.Logger.Info("pipeline.ok",
		"job_id", jobID,
		"new_items", comparison.Summary.NewItems,
		"updated_items", comparison.Summary.UpdatedItems,
		"new_categories", comparison.Summary.NewCategories,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// markFailed is the single funnel for job failure: every error after the
// PROCESSING guard passes through here, so a job is never left stuck.
func (p *Processor) markFailed(ctx context.Context, jobID uuid.UUID, start time.Time, err error) error {
	msg := common.TruncateMessage(err.Error(), p.Cfg.ErrorMessageMax)
	// Best-effort failure write on a fresh context: the pipeline deadline
	// may be what killed the run.
	failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if _, ferr := p.Jobs.SetFailed(failCtx, jobID, msg); ferr != nil {
		p.Logger.Error("pipeline.mark_failed.failed", "job_id", jobID, "err", ferr)
	}
	p.Logger.Error("pipeline.failed", "job_id", jobID, "err", err,
		"elapsed_ms", time.Since(start).Milliseconds())
	return err
}

func (p *Processor) run(ctx context.Context, job *entity.ImportJob) (*entity.MenuComparisonData, error) {
	data, err := p.Files.GetFile(ctx, job.FileKey)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}

	res, err := extract.Extract(data, job.Format)
	if err != nil {
		return nil, fmt.Errorf("text extraction: %w", err)
	}
	p.Logger.Info("pipeline.extract_text.ok",
		"job_id", job.ID,
		"format", job.Format,
		"text_len", len(res.Text),
		"truncated", res.Truncated,
		"rows", res.Metadata.RowCount,
	)

	snapshot, err := p.Menus.GetExistingMenu(ctx, job.StoreRef)
	if err != nil {
		return nil, fmt.Errorf("fetch existing menu: %w", err)
	}

	catNames, itemNames := snapshotNames(snapshot)
	extracted, err := p.Engine.ExtractMenu(ctx, res.Text, menuextract.Options{
		Model:                 p.Cfg.Model,
		SchemaCapable:         p.Cfg.SchemaCapable,
		ExistingCategoryNames: catNames,
		ExistingItemNames:     itemNames,
	})
	if err != nil {
		return nil, fmt.Errorf("menu extraction: %w", err)
	}

	comparison := menucompare.Compare(extracted, snapshot)
	return &comparison, nil
}

func snapshotNames(snap *entity.ExistingMenuSnapshot) (categories, items []string) {
	if snap == nil {
		return nil, nil
	}
	for _, c := range snap.Categories {
		if len(categories) < maxPromptNames {
			categories = append(categories, c.Name)
		}
		for _, it := range c.Items {
			if len(items) < maxPromptNames {
				items = append(items, it.Name)
			}
		}
	}
	return categories, items
}
