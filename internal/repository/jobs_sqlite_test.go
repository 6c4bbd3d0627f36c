package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablecraft/menu-importer/constants"
	"github.com/tablecraft/menu-importer/internal/common"
	"github.com/tablecraft/menu-importer/internal/entity"
)

func testRepo(t *testing.T) ImportJobRepository {
	t.Helper()
	db, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteJobRepository(db, nil)
}

func createJob(t *testing.T, repo ImportJobRepository) *entity.ImportJob {
	t.Helper()
	job := &entity.ImportJob{
		StoreRef: "store-1",
		FileKey:  "menus/upload.csv",
		Format:   constants.TABULAR,
	}
	require.NoError(t, repo.Create(context.Background(), job))
	return job
}

func TestCreateAndGetImportJob(t *testing.T) {
	repo := testRepo(t)
	job := createJob(t, repo)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, constants.ImportStatusProcessing, job.Status)

	got, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, "store-1", got.StoreRef)
	assert.Equal(t, constants.TABULAR, got.Format)
	assert.Equal(t, constants.ImportStatusProcessing, got.Status)
	assert.Nil(t, got.ErrorMessage)
	assert.Nil(t, got.FinishedAt)
	assert.Empty(t, got.ComparisonData)
}

func TestGetByIDUnknownJob(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrJobNotFound)
}

func TestSetReadyClaimsExactlyOnce(t *testing.T) {
	repo := testRepo(t)
	job := createJob(t, repo)
	comparison := json.RawMessage(`{"summary":{"totalItems":3}}`)

	claimed, err := repo.SetReady(context.Background(), job.ID, comparison)
	require.NoError(t, err)
	assert.True(t, claimed)

	// A second processor arriving late must not claim the row again.
	claimed, err = repo.SetReady(context.Background(), job.ID, json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.False(t, claimed)

	got, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ImportStatusReady, got.Status)
	assert.JSONEq(t, string(comparison), string(got.ComparisonData))
	assert.NotNil(t, got.FinishedAt)
}

func TestSetFailedOnlyFromProcessing(t *testing.T) {
	repo := testRepo(t)
	job := createJob(t, repo)

	claimed, err := repo.SetFailed(context.Background(), job.ID, "text extraction: unsupported format")
	require.NoError(t, err)
	assert.True(t, claimed)

	got, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ImportStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "text extraction: unsupported format", *got.ErrorMessage)

	// Terminal states never flip back to another failure.
	claimed, err = repo.SetFailed(context.Background(), job.ID, "later error")
	require.NoError(t, err)
	assert.False(t, claimed)

	claimed, err = repo.SetReady(context.Background(), job.ID, json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestSetCompletedOnlyFromReady(t *testing.T) {
	repo := testRepo(t)
	job := createJob(t, repo)

	// Still PROCESSING: completion is premature and rejected.
	claimed, err := repo.SetCompleted(context.Background(), job.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	_, err = repo.SetReady(context.Background(), job.ID, json.RawMessage(`{}`))
	require.NoError(t, err)

	claimed, err = repo.SetCompleted(context.Background(), job.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.SetCompleted(context.Background(), job.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	got, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ImportStatusCompleted, got.Status)
}

func TestTransitionUnknownJobIsNotClaimed(t *testing.T) {
	repo := testRepo(t)

	claimed, err := repo.SetReady(context.Background(), uuid.New(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.False(t, claimed)
}
