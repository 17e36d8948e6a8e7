package handlers

import (
	"net/http"

	"PM-TMPL/internal/services"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templates   *services.TemplateService
	generations *services.GenerationService
}

func NewTemplateHandler(templates *services.TemplateService, generations *services.GenerationService) *TemplateHandler {
	return &TemplateHandler{templates: templates, generations: generations}
}

// CreateTemplate godoc
// @Summary Create a template with its project and task definitions
// @Tags templates
// @Accept json
// @Produce json
// @Param template body services.TemplateInput true "Template graph"
// @Success 201 {object} models.Template
// @Failure 400 {object} ErrorResponse
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req services.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	template, err := h.templates.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// ListTemplates godoc
// @Summary List templates, newest first
// @Tags templates
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} TemplateListResponse
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	limit, page, offset := pagination(c)

	templates, total, err := h.templates.ListTemplates(c.Request.Context(), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, TemplateListResponse{
		Templates:  templates,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	})
}

// GetTemplate godoc
// @Summary Get a template with its definitions
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} models.Template
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	template, err := h.templates.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// UpdateTemplate godoc
// @Summary Replace a template and its whole definition graph
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param template body services.TemplateInput true "Template graph"
// @Success 200 {object} models.Template
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req services.TemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	template, err := h.templates.UpdateTemplate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// DeleteTemplate godoc
// @Summary Delete a template
// @Tags templates
// @Param id path string true "Template ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.templates.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPlaceholders godoc
// @Summary List the placeholder names a generation must supply
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} PlaceholderResponse
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id}/placeholders [get]
func (h *TemplateHandler) GetPlaceholders(c *gin.Context) {
	templateID := c.Param("id")

	placeholders, err := h.templates.GetPlaceholders(c.Request.Context(), templateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, PlaceholderResponse{
		TemplateID:   templateID,
		Placeholders: placeholders,
	})
}

// Generate godoc
// @Summary Create projects and tasks for a team from a template
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body GenerateRequest true "Team, start date and placeholder values"
// @Success 201 {object} GenerateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /templates/{id}/generate [post]
func (h *TemplateHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.generations.Generate(c.Request.Context(), services.GenerationRequest{
		TemplateID: c.Param("id"),
		TeamID:     req.TeamID,
		StartDate:  req.StartDate,
		Variables:  req.Variables,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGenerateResponse(result))
}

// ExportTemplate godoc
// @Summary Upload a JSON snapshot of the template to object storage
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 201 {object} services.SnapshotResult
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /templates/{id}/export [post]
func (h *TemplateHandler) ExportTemplate(c *gin.Context) {
	snapshot, err := h.templates.ExportTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

// ImportTemplate godoc
// @Summary Create a template from a stored snapshot
// @Tags templates
// @Accept json
// @Produce json
// @Param request body ImportTemplateRequest true "Snapshot object"
// @Success 201 {object} models.Template
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /templates/import [post]
func (h *TemplateHandler) ImportTemplate(c *gin.Context) {
	var req ImportTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	template, err := h.templates.ImportTemplate(c.Request.Context(), req.ObjectName, req.CreatedBy)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}
