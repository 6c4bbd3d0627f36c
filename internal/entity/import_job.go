package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/tablecraft/menu-importer/constants"
)

// ImportJob represents a menu import job for data transfer between layers.
type ImportJob struct {
	ID             uuid.UUID              `json:"id"`
	StoreRef       string                 `json:"store_ref"`
	FileKey        string                 `json:"file_key"`
	Format         constants.FileFormat   `json:"format"`
	Status         constants.ImportStatus `json:"status"`
	ComparisonData json.RawMessage        `json:"comparison_data,omitempty"`
	ErrorMessage   *string                `json:"error_message,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	FinishedAt     *time.Time             `json:"finished_at,omitempty"`
}
