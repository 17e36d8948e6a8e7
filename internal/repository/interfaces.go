package repository

import (
	"context"
	"errors"

	"PM-TMPL/internal/models"
)

// ErrNotFound is returned by every lookup that matches no row.
var ErrNotFound = errors.New("record not found")

type TemplateReader interface {
	// GetTemplate returns the template with its project definitions, their
	// tasks and details, each ordered by position.
	GetTemplate(ctx context.Context, id string) (*models.Template, error)
}

type TemplateRepo interface {
	TemplateReader
	CreateTemplate(ctx context.Context, t *models.Template) error
	ListTemplates(ctx context.Context, limit, offset int) ([]models.Template, int64, error)
	ReplaceTemplate(ctx context.Context, t *models.Template) error
	DeleteTemplate(ctx context.Context, id string) error
}

type TeamReader interface {
	GetTeam(ctx context.Context, id uint) (*models.Team, error)
}

type TeamRepo interface {
	TeamReader
	CreateTeam(ctx context.Context, t *models.Team) error
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListProjects(ctx context.Context, teamID uint) ([]models.Project, error)
}

type GenerationReader interface {
	GetGeneration(ctx context.Context, id string) (*models.Generation, error)
}

// GenerationWriter creates the rows of one generation. Implementations are
// bound to a single transaction.
type GenerationWriter interface {
	CreateGeneration(ctx context.Context, g *models.Generation) error
	CreateProject(ctx context.Context, p *models.Project) error
	CreateProjectDetails(ctx context.Context, d *models.ProjectDetails) error
	CreateTask(ctx context.Context, t *models.Task) error
}

// UnitOfWork runs fn inside a transaction. A non-nil error from fn rolls
// back everything written through w.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, w GenerationWriter) error) error
}
