package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"PM-TMPL/internal/models"
	"PM-TMPL/internal/services"

	"github.com/gin-gonic/gin"
)

// ReportRenderer turns a generation into a PDF brief.
type ReportRenderer interface {
	RenderGenerationPDF(ctx context.Context, generation *models.Generation) (io.ReadCloser, error)
}

type GenerationHandler struct {
	generations *services.GenerationService
	reports     ReportRenderer // nil when no converter is configured
}

func NewGenerationHandler(generations *services.GenerationService, reports ReportRenderer) *GenerationHandler {
	return &GenerationHandler{generations: generations, reports: reports}
}

// GetGeneration godoc
// @Summary Get a generation with the projects and tasks it created
// @Tags generations
// @Produce json
// @Param id path string true "Generation ID"
// @Success 200 {object} GenerationResponse
// @Failure 404 {object} ErrorResponse
// @Router /generations/{id} [get]
func (h *GenerationHandler) GetGeneration(c *gin.Context) {
	generation, err := h.generations.GetGeneration(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGenerationResponse(generation))
}

// DownloadReport godoc
// @Summary Download a PDF brief of a generation
// @Tags generations
// @Produce application/pdf
// @Param id path string true "Generation ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /generations/{id}/report [get]
func (h *GenerationHandler) DownloadReport(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "report conversion is not configured"})
		return
	}

	generation, err := h.generations.GetGeneration(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	pdf, err := h.reports.RenderGenerationPDF(c.Request.Context(), generation)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer pdf.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=generation_%s.pdf", generation.ID))
	c.DataFromReader(http.StatusOK, -1, "application/pdf", pdf, nil)
}
