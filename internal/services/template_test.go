package services

import (
	"context"
	"strings"
	"testing"

	"PM-TMPL/internal/models"
	"PM-TMPL/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTemplateService(t *testing.T, blobs *memoryBlobStore) *TemplateService {
	t.Helper()
	store := repository.NewStore(testDB(t))
	if blobs == nil {
		return NewTemplateService(store, nil)
	}
	return NewTemplateService(store, blobs)
}

func TestCreateTemplate_Validation(t *testing.T) {
	svc := newTemplateService(t, nil)

	tests := []struct {
		name    string
		in      TemplateInput
		message string
	}{
		{
			name:    "blank name",
			in:      TemplateInput{Name: "   "},
			message: "TemplateInput.Name is required",
		},
		{
			name: "negative offset",
			in: TemplateInput{
				Name:     "T",
				Projects: []ProjectDefinitionInput{{Name: "P", StartDay: -1}},
			},
			message: "TemplateInput.Projects[0].StartDay must be >= 0",
		},
		{
			name: "unknown priority",
			in: TemplateInput{
				Name: "T",
				Projects: []ProjectDefinitionInput{
					{Name: "P", Tasks: []TaskDefinitionInput{{Title: "x", Priority: "critical"}}},
				},
			},
			message: "TemplateInput.Projects[0].Tasks[0].Priority must be one of low, medium, high, urgent",
		},
		{
			name: "task without title",
			in: TemplateInput{
				Name: "T",
				Projects: []ProjectDefinitionInput{
					{Name: "P", Tasks: []TaskDefinitionInput{{Title: ""}}},
				},
			},
			message: "TemplateInput.Projects[0].Tasks[0].Title is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTemplate(context.Background(), tt.in)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Message, tt.message)
		})
	}
}

func TestCreateTemplate_KeepsDefinitionOrder(t *testing.T) {
	svc := newTemplateService(t, nil)

	template, err := svc.CreateTemplate(context.Background(), TemplateInput{
		Name:      "  Website launch ",
		CreatedBy: "ops@example.com",
		Projects: []ProjectDefinitionInput{
			{Name: "Zeta", Tasks: []TaskDefinitionInput{{Title: "z2"}, {Title: "z1", Priority: models.PriorityUrgent}}},
			{Name: "Alpha", StartDay: 7},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, template.ID)
	assert.Equal(t, "Website launch", template.Name)
	require.Len(t, template.Projects, 2)
	assert.Equal(t, "Zeta", template.Projects[0].Name)
	assert.Equal(t, "Alpha", template.Projects[1].Name)
	require.Len(t, template.Projects[0].Tasks, 2)
	assert.Equal(t, "z2", template.Projects[0].Tasks[0].Title)
	assert.Equal(t, models.PriorityMedium, template.Projects[0].Tasks[0].Priority)
	assert.Equal(t, models.PriorityUrgent, template.Projects[0].Tasks[1].Priority)
	assert.Nil(t, template.Projects[1].Details)
}

func TestUpdateTemplate_ReplacesGraph(t *testing.T) {
	svc := newTemplateService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateTemplate(ctx, TemplateInput{
		Name:     "v1",
		Projects: []ProjectDefinitionInput{{Name: "Old", Tasks: []TaskDefinitionInput{{Title: "old task"}}}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTemplate(ctx, created.ID, TemplateInput{
		Name: "v2",
		Projects: []ProjectDefinitionInput{
			{Name: "New {client}", Details: &ProjectDetailsInput{DetailsFields: models.DetailsFields{Goals: "grow {metric}"}}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "v2", updated.Name)
	require.Len(t, updated.Projects, 1)
	assert.Equal(t, "New {client}", updated.Projects[0].Name)
	assert.Empty(t, updated.Projects[0].Tasks)
	require.NotNil(t, updated.Projects[0].Details)

	placeholders, err := svc.GetPlaceholders(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"client", "metric"}, placeholders)

	_, err = svc.UpdateTemplate(ctx, "missing", TemplateInput{Name: "x"})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestDeleteTemplate(t *testing.T) {
	svc := newTemplateService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateTemplate(ctx, TemplateInput{Name: "gone"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTemplate(ctx, created.ID))

	_, err = svc.GetTemplate(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.ErrorIs(t, svc.DeleteTemplate(ctx, created.ID), ErrTemplateNotFound)
}

func TestListTemplates(t *testing.T) {
	svc := newTemplateService(t, nil)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.CreateTemplate(ctx, TemplateInput{Name: name})
		require.NoError(t, err)
	}

	page, total, err := svc.ListTemplates(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)
}

func TestGetPlaceholders(t *testing.T) {
	svc := newTemplateService(t, nil)
	ctx := context.Background()

	empty, err := svc.CreateTemplate(ctx, TemplateInput{Name: "plain", Projects: []ProjectDefinitionInput{{Name: "No vars"}}})
	require.NoError(t, err)
	placeholders, err := svc.GetPlaceholders(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, placeholders)
	assert.Empty(t, placeholders)

	full, err := svc.CreateTemplate(ctx, TemplateInput{
		Name:        "vars",
		Description: strPtr("For {client}"),
		Projects: []ProjectDefinitionInput{
			{
				Name:        "{client} site",
				Description: strPtr("{ client } differs"),
				Tasks:       []TaskDefinitionInput{{Title: "Call {owner}", Description: strPtr("{client} again")}},
			},
		},
	})
	require.NoError(t, err)
	placeholders, err = svc.GetPlaceholders(ctx, full.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"client", " client ", "owner"}, placeholders)

	_, err = svc.GetPlaceholders(ctx, "missing")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestExportImportTemplate(t *testing.T) {
	blobs := newMemoryBlobStore()
	svc := newTemplateService(t, blobs)
	ctx := context.Background()

	original, err := svc.CreateTemplate(ctx, TemplateInput{
		Name:      "Exported",
		CreatedBy: "alice",
		Projects: []ProjectDefinitionInput{
			{
				Name:         "Audit {client}",
				StartDay:     3,
				DurationDays: 5,
				Tasks:        []TaskDefinitionInput{{Title: "Crawl", Priority: models.PriorityHigh, DurationDays: 2}},
				Details: &ProjectDetailsInput{
					KeywordsPlan: []models.KeywordPlanEntry{{Page: "/", MainKeyword: "audit", MainKeywordVolume: 90}},
				},
			},
		},
	})
	require.NoError(t, err)

	snapshot, err := svc.ExportTemplate(ctx, original.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(snapshot.ObjectName, "templates/"+original.ID+"/"))
	assert.Equal(t, "https://signed.example.com/"+snapshot.ObjectName, snapshot.SignedURL)
	assert.Positive(t, snapshot.Size)

	imported, err := svc.ImportTemplate(ctx, snapshot.ObjectName, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, imported.ID)
	assert.Equal(t, "Exported", imported.Name)
	assert.Equal(t, "bob", imported.CreatedBy)
	require.Len(t, imported.Projects, 1)
	assert.Equal(t, "Audit {client}", imported.Projects[0].Name)
	assert.Equal(t, 3, imported.Projects[0].StartDay)
	require.Len(t, imported.Projects[0].Tasks, 1)
	assert.Equal(t, models.PriorityHigh, imported.Projects[0].Tasks[0].Priority)
	require.NotNil(t, imported.Projects[0].Details)
	assert.Equal(t, "audit", imported.Projects[0].Details.KeywordsPlan[0].MainKeyword)

	_, err = svc.ImportTemplate(ctx, "", "")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.ImportTemplate(ctx, "templates/nope.json", "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "snapshot templates/nope.json does not exist", ve.Message)

	_, err = svc.ExportTemplate(ctx, "missing")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestImportTemplate_RejectsBadSnapshot(t *testing.T) {
	blobs := newMemoryBlobStore()
	svc := newTemplateService(t, blobs)
	ctx := context.Background()

	_, err := blobs.UploadFile(ctx, strings.NewReader("not json"), "templates/x/broken.json", "application/json")
	require.NoError(t, err)

	_, err = svc.ImportTemplate(ctx, "templates/x/broken.json", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "invalid template snapshot")
}

func TestSnapshotsDisabledWithoutStorage(t *testing.T) {
	svc := newTemplateService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateTemplate(ctx, TemplateInput{Name: "local"})
	require.NoError(t, err)

	_, err = svc.ExportTemplate(ctx, created.ID)
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = svc.ImportTemplate(ctx, "templates/any.json", "")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestTeamService(t *testing.T) {
	db := testDB(t)
	svc := NewTeamService(repository.NewStore(db))
	ctx := context.Background()

	_, err := svc.CreateTeam(ctx, "  ", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	team, err := svc.CreateTeam(ctx, "Growth", "marketing squad")
	require.NoError(t, err)
	assert.NotZero(t, team.ID)

	got, err := svc.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Growth", got.Name)

	teams, err := svc.ListTeams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 1)

	projects, err := svc.ListProjects(ctx, team.ID)
	require.NoError(t, err)
	assert.Empty(t, projects)

	_, err = svc.ListProjects(ctx, 404)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}
