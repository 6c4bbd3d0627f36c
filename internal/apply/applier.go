package apply

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tablecraft/menu-importer/constants"
	"github.com/tablecraft/menu-importer/internal/common"
	"github.com/tablecraft/menu-importer/internal/entity"
	"github.com/tablecraft/menu-importer/internal/repository"
)

// Selection names one reviewed entity the caller chose to apply.
type Selection struct {
	Type entity.EntityType `json:"type"`
	Name string            `json:"name"`
}

// MenuWriter performs the live-menu writes. The write path itself lives
// outside this module; the applier only drives it from the reviewed diff.
type MenuWriter interface {
	CreateCategory(ctx context.Context, storeRef string, c entity.ExtractedCategory) (int64, error)
	UpdateCategory(ctx context.Context, storeRef string, categoryID int64, c entity.ExtractedCategory) error
	CreateItem(ctx context.Context, storeRef string, categoryID int64, item entity.ExtractedItem) (int64, error)
	UpdateItem(ctx context.Context, storeRef string, itemID int64, changes []entity.FieldChange) error
	CreateOptionGroup(ctx context.Context, storeRef string, g entity.ExtractedOptionGroup) (int64, error)
	UpdateOptionGroup(ctx context.Context, storeRef string, groupID int64, g entity.ExtractedOptionGroup) error
}

// Applier selectively applies a reviewed comparison to the live menu.
type Applier struct {
	Logger *slog.Logger
	Jobs   repository.ImportJobRepository
	Writer MenuWriter
}

func NewApplier(logger *slog.Logger, jobs repository.ImportJobRepository, writer MenuWriter) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{Logger: logger, Jobs: jobs, Writer: writer}
}

// Apply writes the selected entities of a READY job's diff to the live menu,
// then marks the job COMPLETED. Unselected and skip-classified entities are
// untouched.
func (a *Applier) Apply(ctx context.Context, jobID uuid.UUID, selections []Selection) error {
	job, err := a.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != constants.ImportStatusReady {
		return fmt.Errorf("%w: job %s is %s", common.ErrJobNotReady, jobID, job.Status)
	}

	var data entity.MenuComparisonData
	if err := json.Unmarshal(job.ComparisonData, &data); err != nil {
		return fmt.Errorf("decode comparison data: %w", err)
	}

	selected := selectionSet(selections)
	applied := 0

	for _, cc := range data.Categories {
		categoryID, ok, err := a.applyCategory(ctx, job.StoreRef, cc, selected)
		if err != nil {
			return err
		}
		if ok {
			applied++
		}

		for _, ic := range cc.Items {
			if !selected.has(entity.EntityItem, ic.Extracted.Name) {
				continue
			}
			switch ic.Action {
			case entity.ActionCreate:
				if categoryID == 0 {
					// No live category to attach to: the category was
					// neither matched nor selected for creation.
					a.Logger.Warn("apply.item.no_category",
						"job_id", jobID, "item", ic.Extracted.Name, "category", cc.Extracted.Name)
					continue
				}
				if _, err := a.Writer.CreateItem(ctx, job.StoreRef, categoryID, ic.Extracted); err != nil {
					return fmt.Errorf("create item %q: %w", ic.Extracted.Name, err)
				}
				applied++
			case entity.ActionUpdate:
				if ic.MatchedItemID == nil {
					continue
				}
				if err := a.Writer.UpdateItem(ctx, job.StoreRef, *ic.MatchedItemID, ic.Changes); err != nil {
					return fmt.Errorf("update item %q: %w", ic.Extracted.Name, err)
				}
				applied++
			}
		}
	}

	for _, gc := range data.OptionGroups {
		if !selected.has(entity.EntityOptionGroup, gc.Extracted.Name) {
			continue
		}
		switch gc.Action {
		case entity.ActionCreate:
			if _, err := a.Writer.CreateOptionGroup(ctx, job.StoreRef, gc.Extracted); err != nil {
				return fmt.Errorf("create option group %q: %w", gc.Extracted.Name, err)
			}
			applied++
		case entity.ActionUpdate:
			if gc.MatchedGroupID == nil {
				continue
			}
			if err := a.Writer.UpdateOptionGroup(ctx, job.StoreRef, *gc.MatchedGroupID, gc.Extracted); err != nil {
				return fmt.Errorf("update option group %q: %w", gc.Extracted.Name, err)
			}
			applied++
		}
	}

	if _, err := a.Jobs.SetCompleted(ctx, jobID); err != nil {
		return err
	}
	a.Logger.Info("apply.ok", "job_id", jobID, "applied", applied, "selected", len(selections))
	return nil
}

// applyCategory resolves the live category id for a comparison: the matched
// id when one exists, or a newly created one when the category was selected
// for creation. Returns 0 when neither applies.
func (a *Applier) applyCategory(ctx context.Context, storeRef string, cc entity.CategoryComparison, selected selections) (int64, bool, error) {
	isSelected := selected.has(entity.EntityCategory, cc.Extracted.Name)

	switch cc.Action {
	case entity.ActionCreate:
		if !isSelected {
			return 0, false, nil
		}
		// Items are written individually below; create the category shell.
		shell := cc.Extracted
		shell.Items = nil
		id, err := a.Writer.CreateCategory(ctx, storeRef, shell)
		if err != nil {
			return 0, false, fmt.Errorf("create category %q: %w", cc.Extracted.Name, err)
		}
		return id, true, nil
	case entity.ActionUpdate:
		if cc.MatchedCategoryID == nil {
			return 0, false, nil
		}
		if !isSelected {
			return *cc.MatchedCategoryID, false, nil
		}
		if err := a.Writer.UpdateCategory(ctx, storeRef, *cc.MatchedCategoryID, cc.Extracted); err != nil {
			return 0, false, fmt.Errorf("update category %q: %w", cc.Extracted.Name, err)
		}
		return *cc.MatchedCategoryID, true, nil
	default:
		if cc.MatchedCategoryID != nil {
			return *cc.MatchedCategoryID, false, nil
		}
		return 0, false, nil
	}
}

type selections map[entity.EntityType]map[string]struct{}

func selectionSet(list []Selection) selections {
	s := selections{}
	for _, sel := range list {
		key := strings.ToLower(strings.TrimSpace(sel.Name))
		if s[sel.Type] == nil {
			s[sel.Type] = map[string]struct{}{}
		}
		s[sel.Type][key] = struct{}{}
	}
	return s
}

func (s selections) has(t entity.EntityType, name string) bool {
	_, ok := s[t][strings.ToLower(strings.TrimSpace(name))]
	return ok
}
