package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tablecraft/menu-importer/internal/common"
	"github.com/tablecraft/menu-importer/internal/entity"
)

// pgMenuProvider reads the live-menu snapshot for a store. Read-only; the
// comparison engine never mutates it.
type pgMenuProvider struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgresMenuProvider(pool *pgxpool.Pool, log *slog.Logger) MenuProvider {
	if log == nil {
		log = slog.Default()
	}
	return &pgMenuProvider{pool: pool, log: log}
}

func (p *pgMenuProvider) GetExistingMenu(ctx context.Context, storeRef string) (*entity.ExistingMenuSnapshot, error) {
	snap := &entity.ExistingMenuSnapshot{StoreRef: storeRef}

	rows, err := p.pool.Query(ctx, `
		SELECT id, name, COALESCE(description, '')
		FROM menu_category WHERE store_ref = $1
		ORDER BY position, id`, storeRef)
	if err != nil {
		return nil, fmt.Errorf("%w: query categories: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	catIndex := map[int64]int{}
	for rows.Next() {
		var c entity.ExistingCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("%w: scan category: %v", common.ErrDatabase, err)
		}
		catIndex[c.ID] = len(snap.Categories)
		snap.Categories = append(snap.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}

	itemRows, err := p.pool.Query(ctx, `
		SELECT i.id, i.category_id, i.name, COALESCE(i.description, ''), i.price, i.allergens
		FROM menu_item i
		JOIN menu_category c ON c.id = i.category_id
		WHERE c.store_ref = $1
		ORDER BY i.position, i.id`, storeRef)
	if err != nil {
		return nil, fmt.Errorf("%w: query items: %v", common.ErrDatabase, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			item  entity.ExistingItem
			catID int64
		)
		if err := itemRows.Scan(&item.ID, &catID, &item.Name, &item.Description, &item.Price, &item.Allergens); err != nil {
			return nil, fmt.Errorf("%w: scan item: %v", common.ErrDatabase, err)
		}
		if idx, ok := catIndex[catID]; ok {
			snap.Categories[idx].Items = append(snap.Categories[idx].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}

	groupRows, err := p.pool.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), type
		FROM menu_option_group WHERE store_ref = $1
		ORDER BY id`, storeRef)
	if err != nil {
		return nil, fmt.Errorf("%w: query option groups: %v", common.ErrDatabase, err)
	}
	defer groupRows.Close()

	for groupRows.Next() {
		var (
			g     entity.ExistingOptionGroup
			gtype string
		)
		if err := groupRows.Scan(&g.ID, &g.Name, &g.Description, &gtype); err != nil {
			return nil, fmt.Errorf("%w: scan option group: %v", common.ErrDatabase, err)
		}
		g.Type = entity.OptionGroupType(gtype)
		snap.OptionGroups = append(snap.OptionGroups, g)
	}
	if err := groupRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}

	p.log.Debug("existing menu loaded",
		"store_ref", storeRef,
		"categories", len(snap.Categories),
		"option_groups", len(snap.OptionGroups),
	)
	return snap, nil
}

// JSONMenuProvider loads a snapshot from a JSON file. Used by the local CLI.
type JSONMenuProvider struct {
	Path string
}

func (p *JSONMenuProvider) GetExistingMenu(_ context.Context, storeRef string) (*entity.ExistingMenuSnapshot, error) {
	if p.Path == "" {
		return &entity.ExistingMenuSnapshot{StoreRef: storeRef}, nil
	}
	b, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read menu snapshot: %w", err)
	}
	var snap entity.ExistingMenuSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode menu snapshot: %w", err)
	}
	if snap.StoreRef == "" {
		snap.StoreRef = storeRef
	}
	return &snap, nil
}
