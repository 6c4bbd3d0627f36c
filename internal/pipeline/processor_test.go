package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablecraft/menu-importer/constants"
	"github.com/tablecraft/menu-importer/internal/entity"
	"github.com/tablecraft/menu-importer/internal/menuextract"
)

type fakeJobs struct {
	jobs map[uuid.UUID]*entity.ImportJob

	readyData   json.RawMessage
	failedMsg   string
	readyCalls  int
	failedCalls int
	claimReady  bool
}

func newFakeJobs(job *entity.ImportJob) *fakeJobs {
	return &fakeJobs{jobs: map[uuid.UUID]*entity.ImportJob{job.ID: job}, claimReady: true}
}

func (f *fakeJobs) Create(_ context.Context, job *entity.ImportJob) error {
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (*entity.ImportJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return job, nil
}

func (f *fakeJobs) SetReady(_ context.Context, id uuid.UUID, comparison json.RawMessage) (bool, error) {
	f.readyCalls++
	if !f.claimReady {
		return false, nil
	}
	f.readyData = comparison
	f.jobs[id].Status = constants.ImportStatusReady
	return true, nil
}

func (f *fakeJobs) SetFailed(_ context.Context, id uuid.UUID, message string) (bool, error) {
	f.failedCalls++
	f.failedMsg = message
	f.jobs[id].Status = constants.ImportStatusFailed
	return true, nil
}

func (f *fakeJobs) SetCompleted(_ context.Context, id uuid.UUID) (bool, error) {
	f.jobs[id].Status = constants.ImportStatusCompleted
	return true, nil
}

type fakeFiles struct {
	data []byte
	err  error
}

func (f *fakeFiles) GetFile(context.Context, string) ([]byte, error) { return f.data, f.err }

type fakeMenus struct {
	snap *entity.ExistingMenuSnapshot
	err  error
}

func (f *fakeMenus) GetExistingMenu(context.Context, string) (*entity.ExistingMenuSnapshot, error) {
	return f.snap, f.err
}

type fakeEngine struct {
	data  entity.ExtractedMenuData
	err   error
	calls int
	opts  menuextract.Options
}

func (f *fakeEngine) ExtractMenu(_ context.Context, _ string, opts menuextract.Options) (entity.ExtractedMenuData, error) {
	f.calls++
	f.opts = opts
	return f.data, f.err
}

func processingJob() *entity.ImportJob {
	return &entity.ImportJob{
		ID:       uuid.New(),
		StoreRef: "store-1",
		FileKey:  "menus/upload.txt",
		Format:   constants.TEXT,
		Status:   constants.ImportStatusProcessing,
	}
}

func TestProcessImportJobHappyPath(t *testing.T) {
	job := processingJob()
	jobs := newFakeJobs(job)
	engine := &fakeEngine{data: entity.ExtractedMenuData{
		Categories: []entity.ExtractedCategory{{
			Name:  "Drinks",
			Items: []entity.ExtractedItem{{Name: "Cola", Price: 300}},
		}},
		Confidence: 0.9,
	}}
	p := NewProcessor(nil, Config{}, jobs, &fakeFiles{data: []byte("Cola - 3.00")}, &fakeMenus{}, engine)

	err := p.ProcessImportJob(context.Background(), job.ID)

	require.NoError(t, err)
	assert.Equal(t, constants.ImportStatusReady, job.Status)
	assert.Equal(t, 1, engine.calls)
	assert.Zero(t, jobs.failedCalls)

	var cmp entity.MenuComparisonData
	require.NoError(t, json.Unmarshal(jobs.readyData, &cmp))
	assert.Equal(t, 1, cmp.Summary.NewCategories)
	assert.Equal(t, 1, cmp.Summary.NewItems)
}

func TestProcessImportJobNonProcessingIsNoOp(t *testing.T) {
	for _, status := range []constants.ImportStatus{
		constants.ImportStatusReady,
		constants.ImportStatusFailed,
		constants.ImportStatusCompleted,
	} {
		job := processingJob()
		job.Status = status
		jobs := newFakeJobs(job)
		engine := &fakeEngine{}
		p := NewProcessor(nil, Config{}, jobs, &fakeFiles{}, &fakeMenus{}, engine)

		err := p.ProcessImportJob(context.Background(), job.ID)

		require.NoError(t, err, status)
		assert.Equal(t, status, job.Status)
		assert.Zero(t, engine.calls)
		assert.Zero(t, jobs.readyCalls)
		assert.Zero(t, jobs.failedCalls)
	}
}

func TestProcessImportJobExtractionFailureMarksFailed(t *testing.T) {
	job := processingJob()
	jobs := newFakeJobs(job)
	engineErr := errors.New("ai service unavailable")
	p := NewProcessor(nil, Config{}, jobs,
		&fakeFiles{data: []byte("text")}, &fakeMenus{}, &fakeEngine{err: engineErr})

	err := p.ProcessImportJob(context.Background(), job.ID)

	require.Error(t, err)
	assert.Equal(t, constants.ImportStatusFailed, job.Status)
	assert.Contains(t, jobs.failedMsg, "ai service unavailable")
	assert.Zero(t, jobs.readyCalls)
}

func TestProcessImportJobErrorMessageTruncated(t *testing.T) {
	job := processingJob()
	jobs := newFakeJobs(job)
	longErr := errors.New(strings.Repeat("x", 2000))
	p := NewProcessor(nil, Config{ErrorMessageMax: 100}, jobs,
		&fakeFiles{err: longErr}, &fakeMenus{}, &fakeEngine{})

	_ = p.ProcessImportJob(context.Background(), job.ID)

	assert.LessOrEqual(t, len(jobs.failedMsg), 100)
	assert.NotEmpty(t, jobs.failedMsg)
}

func TestProcessImportJobFileFetchFailureMarksFailed(t *testing.T) {
	job := processingJob()
	jobs := newFakeJobs(job)
	engine := &fakeEngine{}
	p := NewProcessor(nil, Config{}, jobs,
		&fakeFiles{err: errors.New("no such key")}, &fakeMenus{}, engine)

	err := p.ProcessImportJob(context.Background(), job.ID)

	require.Error(t, err)
	assert.Equal(t, constants.ImportStatusFailed, job.Status)
	assert.Zero(t, engine.calls)
}

func TestProcessImportJobUnencodableComparisonMarksFailed(t *testing.T) {
	job := processingJob()
	jobs := newFakeJobs(job)
	// NaN confidence makes the comparison JSON-unencodable.
	engine := &fakeEngine{data: entity.ExtractedMenuData{Confidence: math.NaN()}}
	p := NewProcessor(nil, Config{}, jobs,
		&fakeFiles{data: []byte("text")}, &fakeMenus{}, engine)

	err := p.ProcessImportJob(context.Background(), job.ID)

	require.Error(t, err)
	assert.Equal(t, constants.ImportStatusFailed, job.Status)
	assert.Contains(t, jobs.failedMsg, "encode comparison")
	assert.Zero(t, jobs.readyCalls)
}

func TestProcessImportJobLostRaceIsNotAnError(t *testing.T) {
	job := processingJob()
	jobs := newFakeJobs(job)
	jobs.claimReady = false
	p := NewProcessor(nil, Config{}, jobs,
		&fakeFiles{data: []byte("text")}, &fakeMenus{}, &fakeEngine{})

	err := p.ProcessImportJob(context.Background(), job.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, jobs.readyCalls)
	assert.Zero(t, jobs.failedCalls)
}

func TestProcessImportJobPassesSnapshotNamesToEngine(t *testing.T) {
	job := processingJob()
	jobs := newFakeJobs(job)
	engine := &fakeEngine{}
	menus := &fakeMenus{snap: &entity.ExistingMenuSnapshot{
		Categories: []entity.ExistingCategory{{
			Name:  "Main Courses",
			Items: []entity.ExistingItem{{Name: "Margherita Pizza"}, {Name: "Tiramisu"}},
		}},
	}}
	p := NewProcessor(nil, Config{Model: "gpt-4o-mini", SchemaCapable: true}, jobs,
		&fakeFiles{data: []byte("text")}, menus, engine)

	require.NoError(t, p.ProcessImportJob(context.Background(), job.ID))

	assert.Equal(t, "gpt-4o-mini", engine.opts.Model)
	assert.True(t, engine.opts.SchemaCapable)
	assert.Equal(t, []string{"Main Courses"}, engine.opts.ExistingCategoryNames)
	assert.Equal(t, []string{"Margherita Pizza", "Tiramisu"}, engine.opts.ExistingItemNames)
}

func TestSnapshotNamesCapped(t *testing.T) {
	snap := &entity.ExistingMenuSnapshot{}
	for i := 0; i < 300; i++ {
		snap.Categories = append(snap.Categories, entity.ExistingCategory{
			Name:  "Category",
			Items: []entity.ExistingItem{{Name: "Item"}, {Name: "Item"}},
		})
	}

	cats, items := snapshotNames(snap)

	assert.Len(t, cats, maxPromptNames)
	assert.Len(t, items, maxPromptNames)
}
