package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"PM-TMPL/internal/events"
	"PM-TMPL/internal/models"
	"PM-TMPL/internal/processor"
	"PM-TMPL/internal/repository"
)

// GenerationRequest asks for one materialisation of a template.
type GenerationRequest struct {
	TemplateID string
	TeamID     uint
	StartDate  string // YYYY-MM-DD
	Variables  map[string]string
}

// GenerationResult holds every row created by one Generate call.
type GenerationResult struct {
	Generation *models.Generation
	Projects   []models.Project
	Tasks      []models.Task
}

type GenerationService struct {
	templates   repository.TemplateReader
	teams       repository.TeamReader
	generations repository.GenerationReader
	uow         repository.UnitOfWork
	publisher   events.Publisher
}

func NewGenerationService(
	templates repository.TemplateReader,
	teams repository.TeamReader,
	generations repository.GenerationReader,
	uow repository.UnitOfWork,
	publisher events.Publisher,
) *GenerationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &GenerationService{
		templates:   templates,
		teams:       teams,
		generations: generations,
		uow:         uow,
		publisher:   publisher,
	}
}

// plannedProject is one project with its details and tasks, computed but
// not yet persisted.
type plannedProject struct {
	project models.Project
	details *models.ProjectDetails
	tasks   []models.Task
}

// Generate validates the request and creates every project and task of the
// template in a single transaction. Nothing is written when validation fails,
// and a write failure rolls back all rows of the call.
func (s *GenerationService) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	if req.TeamID == 0 {
		return nil, &ValidationError{Message: "team_id is required"}
	}
	anchor, err := processor.ParseDate(req.StartDate)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	template, err := s.templates.GetTemplate(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	if _, err := s.teams.GetTeam(ctx, req.TeamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	variables := req.Variables
	if variables == nil {
		variables = map[string]string{}
	}

	placeholders := processor.ExtractTemplatePlaceholders(template)
	if name, missing := processor.FirstMissing(placeholders, variables); missing {
		return nil, &MissingVariableError{Name: name}
	}

	plan := planGeneration(template, req.TeamID, anchor, variables)

	generation := &models.Generation{
		TemplateID:   template.ID,
		TemplateName: template.Name,
		TeamID:       req.TeamID,
		StartDate:    anchor,
		Variables:    variables,
		ProjectCount: len(plan),
	}
	for _, p := range plan {
		generation.TaskCount += len(p.tasks)
	}

	result := &GenerationResult{Generation: generation}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, w repository.GenerationWriter) error {
		if err := w.CreateGeneration(ctx, generation); err != nil {
			return err
		}

		projects := make([]models.Project, 0, len(plan))
		var tasks []models.Task

		for _, p := range plan {
			project := p.project
			project.GenerationID = &generation.ID
			if err := w.CreateProject(ctx, &project); err != nil {
				return err
			}

			if p.details != nil {
				details := *p.details
				details.ProjectID = project.ID
				if err := w.CreateProjectDetails(ctx, &details); err != nil {
					return err
				}
				project.Details = &details
			}

			for _, t := range p.tasks {
				task := t
				task.ProjectID = project.ID
				if err := w.CreateTask(ctx, &task); err != nil {
					return err
				}
				tasks = append(tasks, task)
			}

			projects = append(projects, project)
		}

		result.Projects = projects
		result.Tasks = tasks
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate from template %s: %w", template.ID, err)
	}

	slog.Info("template generated",
		"generation_id", generation.ID,
		"template_id", template.ID,
		"team_id", req.TeamID,
		"projects", len(result.Projects),
		"tasks", len(result.Tasks))

	s.publishCompleted(ctx, result)
	return result, nil
}

// GetGeneration returns a generation with its projects, details and tasks.
func (s *GenerationService) GetGeneration(ctx context.Context, generationID string) (*models.Generation, error) {
	generation, err := s.generations.GetGeneration(ctx, generationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGenerationNotFound
		}
		return nil, fmt.Errorf("failed to load generation: %w", err)
	}
	return generation, nil
}

func (s *GenerationService) publishCompleted(ctx context.Context, result *GenerationResult) {
	projectIDs := make([]uint, 0, len(result.Projects))
	for _, p := range result.Projects {
		projectIDs = append(projectIDs, p.ID)
	}

	event := events.GenerationEvent{
		Type:         events.TypeGenerationCompleted,
		GenerationID: result.Generation.ID,
		TemplateID:   result.Generation.TemplateID,
		TeamID:       result.Generation.TeamID,
		ProjectIDs:   projectIDs,
		TaskCount:    len(result.Tasks),
		OccurredAt:   time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish generation event", "generation_id", event.GenerationID, "error", err)
	}
}

// planGeneration computes dates and substituted text for every definition,
// in template order. It does no I/O.
func planGeneration(template *models.Template, teamID uint, anchor time.Time, variables map[string]string) []plannedProject {
	plan := make([]plannedProject, 0, len(template.Projects))

	for _, def := range template.Projects {
		window := processor.OffsetWindow(anchor, def.StartDay, def.DurationDays)

		p := plannedProject{
			project: models.Project{
				TeamID:      teamID,
				Name:        processor.Substitute(def.Name, variables),
				Description: processor.SubstitutePtr(def.Description, variables),
				Status:      models.ProjectStatusActive,
				StartDate:   window.Start,
				DueDate:     window.Due,
			},
			tasks: make([]models.Task, 0, len(def.Tasks)),
		}

		if def.Details != nil {
			p.details = &models.ProjectDetails{
				DetailsFields: processor.SubstituteDetails(def.Details.DetailsFields, variables),
				KeywordsPlan:  append([]models.KeywordPlanEntry(nil), def.Details.KeywordsPlan...),
			}
		}

		for _, taskDef := range def.Tasks {
			taskWindow := processor.OffsetWindow(window.Start, taskDef.StartDay, taskDef.DurationDays)
			p.tasks = append(p.tasks, models.Task{
				Title:       processor.Substitute(taskDef.Title, variables),
				Description: processor.SubstitutePtr(taskDef.Description, variables),
				Priority:    taskDef.Priority,
				Status:      models.TaskStatusTodo,
				StartDate:   taskWindow.Start,
				DueDate:     taskWindow.Due,
			})
		}

		plan = append(plan, p)
	}

	return plan
}
