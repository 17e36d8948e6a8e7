package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"PM-TMPL/internal"
	"PM-TMPL/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, internal.Migrate(db))
	t.Cleanup(func() { _ = internal.CloseDB(db) })
	return NewStore(db), db
}

func TestGetTemplate_OrdersByPosition(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	template := &models.Template{
		Name: "ordered",
		Projects: []models.ProjectDefinition{
			{Name: "second", Position: 1},
			{Name: "first", Position: 0, Tasks: []models.TaskDefinition{
				{Title: "b", Position: 1, Priority: models.PriorityLow},
				{Title: "a", Position: 0, Priority: models.PriorityLow},
			}},
		},
	}
	require.NoError(t, store.CreateTemplate(ctx, template))

	got, err := store.GetTemplate(ctx, template.ID)
	require.NoError(t, err)
	require.Len(t, got.Projects, 2)
	assert.Equal(t, "first", got.Projects[0].Name)
	assert.Equal(t, "a", got.Projects[0].Tasks[0].Title)
	assert.Equal(t, "b", got.Projects[0].Tasks[1].Title)

	_, err = store.GetTemplate(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceTemplate_RemovesOldDefinitions(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	template := &models.Template{
		Name: "v1",
		Projects: []models.ProjectDefinition{
			{Name: "old", Tasks: []models.TaskDefinition{{Title: "old task", Priority: models.PriorityMedium}},
				Details: &models.ProjectDetailsDefinition{DetailsFields: models.DetailsFields{Notes: "x"}}},
		},
	}
	require.NoError(t, store.CreateTemplate(ctx, template))

	require.NoError(t, store.ReplaceTemplate(ctx, &models.Template{
		ID:       template.ID,
		Name:     "v2",
		Projects: []models.ProjectDefinition{{Name: "new"}},
	}))

	var tasks, details, projects int64
	require.NoError(t, db.Model(&models.TaskDefinition{}).Count(&tasks).Error)
	require.NoError(t, db.Model(&models.ProjectDetailsDefinition{}).Count(&details).Error)
	require.NoError(t, db.Model(&models.ProjectDefinition{}).Count(&projects).Error)
	assert.Zero(t, tasks)
	assert.Zero(t, details)
	assert.Equal(t, int64(1), projects)

	assert.ErrorIs(t, store.ReplaceTemplate(ctx, &models.Template{ID: "nope", Name: "x"}), ErrNotFound)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, w GenerationWriter) error {
		generation := &models.Generation{TemplateID: "t", TemplateName: "t", TeamID: 1, StartDate: time.Now().UTC()}
		require.NoError(t, w.CreateGeneration(ctx, generation))
		require.NoError(t, w.CreateProject(ctx, &models.Project{TeamID: 1, Name: "p", GenerationID: &generation.ID}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var generations, projects int64
	require.NoError(t, db.Model(&models.Generation{}).Count(&generations).Error)
	require.NoError(t, db.Model(&models.Project{}).Count(&projects).Error)
	assert.Zero(t, generations)
	assert.Zero(t, projects)
}

func TestListProjects_FiltersByTeam(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Project{TeamID: 1, Name: "later", StartDate: day.AddDate(0, 0, 3)}).Error)
	require.NoError(t, db.Create(&models.Project{TeamID: 1, Name: "sooner", StartDate: day}).Error)
	require.NoError(t, db.Create(&models.Project{TeamID: 2, Name: "other", StartDate: day}).Error)

	projects, err := store.ListProjects(ctx, 1)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "sooner", projects[0].Name)
	assert.Equal(t, "later", projects[1].Name)
}
