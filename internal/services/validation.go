package services

import (
	"errors"
	"fmt"
	"strings"

	"PM-TMPL/internal/models"

	"github.com/go-playground/validator/v10"
)

// TemplateInput is the writable shape of a template graph.
type TemplateInput struct {
	Name        string                   `json:"name" validate:"required,notblank"`
	Description *string                  `json:"description"`
	CreatedBy   string                   `json:"created_by"`
	Projects    []ProjectDefinitionInput `json:"projects" validate:"dive"`
}

type ProjectDefinitionInput struct {
	Name         string                `json:"name" validate:"required,notblank"`
	Description  *string               `json:"description"`
	StartDay     int                   `json:"start_day" validate:"gte=0"`
	DurationDays int                   `json:"duration_days" validate:"gte=0"`
	Tasks        []TaskDefinitionInput `json:"tasks" validate:"dive"`
	Details      *ProjectDetailsInput  `json:"details"`
}

type TaskDefinitionInput struct {
	Title        string  `json:"title" validate:"required,notblank"`
	Description  *string `json:"description"`
	Priority     string  `json:"priority" validate:"omitempty,priority"`
	StartDay     int     `json:"start_day" validate:"gte=0"`
	DurationDays int     `json:"duration_days" validate:"gte=0"`
}

type ProjectDetailsInput struct {
	models.DetailsFields
	KeywordsPlan []models.KeywordPlanEntry `json:"keywords_plan" validate:"dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return IsPriority(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// IsPriority reports whether p is one of the four task priorities.
func IsPriority(p string) bool {
	for _, allowed := range models.Priorities {
		if p == allowed {
			return true
		}
	}
	return false
}

// validateStruct turns validator failures into a single ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return &ValidationError{Message: strings.Join(messages, "; ")}
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "priority":
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(models.Priorities, ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// toModel builds the persisted graph, assigning positions and the default
// priority.
func (in TemplateInput) toModel() *models.Template {
	template := &models.Template{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		CreatedBy:   in.CreatedBy,
		Projects:    make([]models.ProjectDefinition, 0, len(in.Projects)),
	}

	for i, p := range in.Projects {
		project := models.ProjectDefinition{
			Position:     i,
			Name:         p.Name,
			Description:  p.Description,
			StartDay:     p.StartDay,
			DurationDays: p.DurationDays,
			Tasks:        make([]models.TaskDefinition, 0, len(p.Tasks)),
		}
		for j, task := range p.Tasks {
			priority := task.Priority
			if priority == "" {
				priority = models.PriorityMedium
			}
			project.Tasks = append(project.Tasks, models.TaskDefinition{
				Position:     j,
				Title:        task.Title,
				Description:  task.Description,
				Priority:     priority,
				StartDay:     task.StartDay,
				DurationDays: task.DurationDays,
			})
		}
		if p.Details != nil {
			project.Details = &models.ProjectDetailsDefinition{
				DetailsFields: p.Details.DetailsFields,
				KeywordsPlan:  p.Details.KeywordsPlan,
			}
		}
		template.Projects = append(template.Projects, project)
	}

	return template
}

// templateInputFromModel is the inverse of toModel, used for snapshots.
func templateInputFromModel(t *models.Template) TemplateInput {
	in := TemplateInput{
		Name:        t.Name,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		Projects:    make([]ProjectDefinitionInput, 0, len(t.Projects)),
	}
	for _, p := range t.Projects {
		project := ProjectDefinitionInput{
			Name:         p.Name,
			Description:  p.Description,
			StartDay:     p.StartDay,
			DurationDays: p.DurationDays,
			Tasks:        make([]TaskDefinitionInput, 0, len(p.Tasks)),
		}
		for _, task := range p.Tasks {
			project.Tasks = append(project.Tasks, TaskDefinitionInput{
				Title:        task.Title,
				Description:  task.Description,
				Priority:     task.Priority,
				StartDay:     task.StartDay,
				DurationDays: task.DurationDays,
			})
		}
		if p.Details != nil {
			project.Details = &ProjectDetailsInput{
				DetailsFields: p.Details.DetailsFields,
				KeywordsPlan:  p.Details.KeywordsPlan,
			}
		}
		in.Projects = append(in.Projects, project)
	}
	return in
}
