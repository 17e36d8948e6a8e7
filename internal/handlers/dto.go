package handlers

import (
	"PM-TMPL/internal/models"
	"PM-TMPL/internal/processor"
	"PM-TMPL/internal/services"
)

type GenerateRequest struct {
	TeamID    uint              `json:"team_id"`
	StartDate string            `json:"start_date"`
	Variables map[string]string `json:"variables"`
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ImportTemplateRequest struct {
	ObjectName string `json:"object_name" binding:"required"`
	CreatedBy  string `json:"created_by"`
}

type PlaceholderResponse struct {
	TemplateID   string   `json:"template_id"`
	Placeholders []string `json:"placeholders"`
}

type TemplateListResponse struct {
	Templates  []models.Template `json:"templates"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type ProjectDetailsResponse struct {
	models.DetailsFields
	KeywordsPlan []models.KeywordPlanEntry `json:"keywords_plan"`
}

type ProjectResponse struct {
	ID           uint                    `json:"id"`
	TeamID       uint                    `json:"team_id"`
	GenerationID *string                 `json:"generation_id,omitempty"`
	Name         string                  `json:"name"`
	Description  *string                 `json:"description"`
	Status       string                  `json:"status"`
	StartDate    string                  `json:"start_date"`
	DueDate      string                  `json:"due_date"`
	Details      *ProjectDetailsResponse `json:"details,omitempty"`
	Tasks        []TaskResponse          `json:"tasks,omitempty"`
}

type TaskResponse struct {
	ID          uint    `json:"id"`
	ProjectID   uint    `json:"project_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	StartDate   string  `json:"start_date"`
	DueDate     string  `json:"due_date"`
}

type GenerateResponse struct {
	GenerationID string            `json:"generation_id"`
	Projects     []ProjectResponse `json:"projects"`
	Tasks        []TaskResponse    `json:"tasks"`
}

type GenerationResponse struct {
	ID           string            `json:"id"`
	TemplateID   string            `json:"template_id"`
	TemplateName string            `json:"template_name"`
	TeamID       uint              `json:"team_id"`
	StartDate    string            `json:"start_date"`
	Variables    map[string]string `json:"variables"`
	ProjectCount int               `json:"project_count"`
	TaskCount    int               `json:"task_count"`
	Projects     []ProjectResponse `json:"projects"`
}

func newProjectResponse(p models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:           p.ID,
		TeamID:       p.TeamID,
		GenerationID: p.GenerationID,
		Name:         p.Name,
		Description:  p.Description,
		Status:       p.Status,
		StartDate:    processor.FormatDate(p.StartDate),
		DueDate:      processor.FormatDate(p.DueDate),
	}
	if p.Details != nil {
		resp.Details = &ProjectDetailsResponse{
			DetailsFields: p.Details.DetailsFields,
			KeywordsPlan:  p.Details.KeywordsPlan,
		}
	}
	for _, t := range p.Tasks {
		resp.Tasks = append(resp.Tasks, newTaskResponse(t))
	}
	return resp
}

func newTaskResponse(t models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		StartDate:   processor.FormatDate(t.StartDate),
		DueDate:     processor.FormatDate(t.DueDate),
	}
}

func newProjectResponses(projects []models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, newProjectResponse(p))
	}
	return out
}

func newGenerateResponse(result *services.GenerationResult) GenerateResponse {
	resp := GenerateResponse{
		GenerationID: result.Generation.ID,
		Projects:     newProjectResponses(result.Projects),
		Tasks:        make([]TaskResponse, 0, len(result.Tasks)),
	}
	for _, t := range result.Tasks {
		resp.Tasks = append(resp.Tasks, newTaskResponse(t))
	}
	return resp
}

func newGenerationResponse(g *models.Generation) GenerationResponse {
	return GenerationResponse{
		ID:           g.ID,
		TemplateID:   g.TemplateID,
		TemplateName: g.TemplateName,
		TeamID:       g.TeamID,
		StartDate:    processor.FormatDate(g.StartDate),
		Variables:    g.Variables,
		ProjectCount: g.ProjectCount,
		TaskCount:    g.TaskCount,
		Projects:     newProjectResponses(g.Projects),
	}
}
