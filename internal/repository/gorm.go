package repository

import (
	"context"
	"errors"
	"fmt"

	"PM-TMPL/internal/models"

	"gorm.io/gorm"
)

// Store implements the repository ports on top of gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	_ TemplateRepo     = (*Store)(nil)
	_ TeamRepo         = (*Store)(nil)
	_ GenerationReader = (*Store)(nil)
	_ UnitOfWork       = (*Store)(nil)
)

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Store) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	var template models.Template
	err := s.db.WithContext(ctx).
		Preload("Projects", byPosition).
		Preload("Projects.Tasks", byPosition).
		Preload("Projects.Details").
		First(&template, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &template, nil
}

func (s *Store) CreateTemplate(ctx context.Context, t *models.Template) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (s *Store) ListTemplates(ctx context.Context, limit, offset int) ([]models.Template, int64, error) {
	var templates []models.Template
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.Template{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count templates: %w", err)
	}

	query := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&templates).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch templates: %w", err)
	}

	return templates, total, nil
}

// ReplaceTemplate updates the template row and swaps its whole definition
// graph for t.Projects in one transaction.
func (s *Store) ReplaceTemplate(ctx context.Context, t *models.Template) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Template{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
			"name":        t.Name,
			"description": t.Description,
		})
		if result.Error != nil {
			return fmt.Errorf("failed to update template: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := deleteDefinitions(tx, t.ID); err != nil {
			return err
		}

		for i := range t.Projects {
			t.Projects[i].TemplateID = t.ID
		}
		if len(t.Projects) > 0 {
			if err := tx.Create(&t.Projects).Error; err != nil {
				return fmt.Errorf("failed to create project definitions: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Template{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteDefinitions(tx *gorm.DB, templateID string) error {
	projectIDs := tx.Model(&models.ProjectDefinition{}).Select("id").Where("template_id = ?", templateID)

	if err := tx.Where("project_definition_id IN (?)", projectIDs).Delete(&models.TaskDefinition{}).Error; err != nil {
		return fmt.Errorf("failed to delete task definitions: %w", err)
	}
	if err := tx.Where("project_definition_id IN (?)", projectIDs).Delete(&models.ProjectDetailsDefinition{}).Error; err != nil {
		return fmt.Errorf("failed to delete project details definitions: %w", err)
	}
	if err := tx.Where("template_id = ?", templateID).Delete(&models.ProjectDefinition{}).Error; err != nil {
		return fmt.Errorf("failed to delete project definitions: %w", err)
	}
	return nil
}

func (s *Store) GetTeam(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &team, nil
}

func (s *Store) CreateTeam(ctx context.Context, t *models.Team) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}
	return teams, nil
}

func (s *Store) ListProjects(ctx context.Context, teamID uint) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.WithContext(ctx).
		Preload("Details").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("start_date ASC, id ASC") }).
		Where("team_id = ?", teamID).
		Order("start_date ASC, id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	return projects, nil
}

func (s *Store) GetGeneration(ctx context.Context, id string) (*models.Generation, error) {
	var generation models.Generation
	err := s.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Projects.Details").
		Preload("Projects.Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&generation, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &generation, nil
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, w GenerationWriter) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &txWriter{tx: tx})
	})
}

type txWriter struct {
	tx *gorm.DB
}

func (w *txWriter) CreateGeneration(ctx context.Context, g *models.Generation) error {
	if err := w.tx.WithContext(ctx).Omit("Projects").Create(g).Error; err != nil {
		return fmt.Errorf("failed to create generation: %w", err)
	}
	return nil
}

func (w *txWriter) CreateProject(ctx context.Context, p *models.Project) error {
	if err := w.tx.WithContext(ctx).Omit("Details", "Tasks").Create(p).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (w *txWriter) CreateProjectDetails(ctx context.Context, d *models.ProjectDetails) error {
	if err := w.tx.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create project details: %w", err)
	}
	return nil
}

func (w *txWriter) CreateTask(ctx context.Context, t *models.Task) error {
	if err := w.tx.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}
