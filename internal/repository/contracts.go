package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/tablecraft/menu-importer/internal/entity"
)

// ImportJobRepository persists import jobs. The Set* methods are
// status-conditional writes: they report whether the row transitioned, which
// is the compare-and-set idempotency guard against concurrent processors.
type ImportJobRepository interface {
	Create(ctx context.Context, job *entity.ImportJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ImportJob, error)

	// SetReady transitions PROCESSING -> READY and stores the comparison data.
	SetReady(ctx context.Context, id uuid.UUID, comparison json.RawMessage) (bool, error)
	// SetFailed transitions PROCESSING -> FAILED with the captured message.
	SetFailed(ctx context.Context, id uuid.UUID, message string) (bool, error)
	// SetCompleted transitions READY -> COMPLETED.
	SetCompleted(ctx context.Context, id uuid.UUID) (bool, error)
}

// FileSource fetches the raw bytes of an uploaded document, opaque to format.
type FileSource interface {
	GetFile(ctx context.Context, key string) ([]byte, error)
}

// MenuProvider supplies the read model of the live menu for a store.
type MenuProvider interface {
	GetExistingMenu(ctx context.Context, storeRef string) (*entity.ExistingMenuSnapshot, error)
}
