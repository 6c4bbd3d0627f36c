package menuextract

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
	"github.com/tablecraft/menu-importer/internal/llm"
)

// Options select the extraction strategy and carry existing-menu context.
type Options struct {
	Model                 string
	SchemaCapable         bool // model supports schema-constrained output
	ExistingCategoryNames []string
	ExistingItemNames     []string
}

// Engine turns extracted document text into structured menu data via the AI
// completion service. Owns chunking, per-chunk extraction, merging, output
// normalization, and content moderation. No internal retries; the caller
// decides what a failed extraction means for the job.
type Engine struct {
	client llm.Client
	log    *slog.Logger
}

func NewEngine(client llm.Client, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{client: client, log: logger}
}

// ExtractMenu runs the full extraction: chunk, extract per chunk, merge,
// moderate, and re-stamp item category names.
//
// Chunks are processed sequentially. The merge is commutative, so this could
// be parallelized, but sequential calls bound burst load on the AI service.
func (e *Engine) ExtractMenu(ctx context.Context, text string, opts Options) (entity.ExtractedMenuData, error) {
	rid := uuid.New().String()
	start := time.Now()

	chunks := splitChunks(text, constants.ChunkSizeLimit)
	e.log.Info("menu.extract.start",
		"req_id", rid,
		"text_len", len(text),
		"chunks", len(chunks),
		"schema_capable", opts.SchemaCapable,
		"existing_categories", len(opts.ExistingCategoryNames),
		"existing_items", len(opts.ExistingItemNames),
	)

	results := make([]entity.ExtractedMenuData, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := e.extractChunk(ctx, rid, i, chunk, opts)
		if err != nil {
			return entity.ExtractedMenuData{}, err
		}
		e.log.Info("menu.extract.chunk.ok",
			"req_id", rid, "chunk", i,
			"categories", len(res.Categories),
			"option_groups", len(res.OptionGroups),
			"confidence", res.Confidence,
		)
		results = append(results, res)
	}

	merged := Merge(results...)
	if hits := moderate(&merged); hits > 0 {
		e.log.Warn("menu.extract.moderated", "req_id", rid, "filtered_fields", hits)
	}
	restamp(&merged)

	e.log.Info("menu.extract.ok",
		"req_id", rid,
		"categories", len(merged.Categories),
		"option_groups", len(merged.OptionGroups),
		"confidence", merged.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return merged, nil
}

func (e *Engine) extractChunk(ctx context.Context, rid string, idx int, chunk string, opts Options) (entity.ExtractedMenuData, error) {
	sanitized, suspicious := llm.SanitizePrompt(chunk)
	if suspicious {
		e.log.Warn("menu.extract.suspicious_input",
			"req_id", rid, "chunk", idx,
			"preview", llm.Preview(chunk, 120),
		)
	}

	sys := llm.BuildSystemPrompt()
	user := llm.BuildUserPrompt(sanitized, llm.PromptContext{
		ExistingCategoryNames: opts.ExistingCategoryNames,
		ExistingItemNames:     opts.ExistingItemNames,
	})

	if opts.SchemaCapable {
		return e.extractWithSchema(ctx, rid, idx, sys, user, opts.Model)
	}
	return e.extractFreeText(ctx, rid, idx, sys, user, opts.Model)
}

func (e *Engine) extractWithSchema(ctx context.Context, rid string, idx int, sys, user, model string) (entity.ExtractedMenuData, error) {
	schema := llm.BuildMenuJSONSchema()
	raw, err := e.client.CompleteStructured(ctx, model, sys, user, schema)
	if err != nil {
		return entity.ExtractedMenuData{}, fmt.Errorf("chunk %d: %w", idx, err)
	}

	if err := llm.ValidateJSONAgainstSchema(schema, raw); err != nil {
		e.log.Debug("menu.extract.schema_mismatch", "req_id", rid, "chunk", idx, "raw", string(raw))
		return entity.ExtractedMenuData{}, fmt.Errorf("chunk %d: %w: %v", idx, common.ErrAIResponseParse, err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		e.log.Debug("menu.extract.decode_failed", "req_id", rid, "chunk", idx, "raw", string(raw))
		return entity.ExtractedMenuData{}, fmt.Errorf("chunk %d: %w: %v", idx, common.ErrAIResponseParse, err)
	}
	return normalizeRaw(m), nil
}

func (e *Engine) extractFreeText(ctx context.Context, rid string, idx int, sys, user, model string) (entity.ExtractedMenuData, error) {
	content, err := e.client.CompleteText(ctx, model, sys, user+"\n\nReturn ONLY JSON, no prose, no markdown.")
	if err != nil {
		return entity.ExtractedMenuData{}, fmt.Errorf("chunk %d: %w", idx, err)
	}

	stripped := llm.StripCodeFences(content)
	var m map[string]any
	if err := json.Unmarshal([]byte(stripped), &m); err != nil {
		e.log.Debug("menu.extract.unparseable", "req_id", rid, "chunk", idx, "raw", content)
		return entity.ExtractedMenuData{}, fmt.Errorf("chunk %d: %w: %v", idx, common.ErrAIResponseParse, err)
	}
	return normalizeRaw(m), nil
}

// restamp forces every item's CategoryName to its containing category's name,
// defending against model drift between nested and declared references.
func restamp(d *entity.ExtractedMenuData) {
	for ci := range d.Categories {
		for ii := range d.Categories[ci].Items {
			d.Categories[ci].Items[ii].CategoryName = d.Categories[ci].Name
		}
	}
}
