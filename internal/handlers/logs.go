package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"PM-TMPL/internal/models"
	"PM-TMPL/internal/services"

	"github.com/gin-gonic/gin"
)

type LogsHandler struct {
	activityLogService *services.ActivityLogService
}

func NewLogsHandler(activityLogService *services.ActivityLogService) *LogsHandler {
	return &LogsHandler{
		activityLogService: activityLogService,
	}
}

type LogsResponse struct {
	Logs       []models.ActivityLog `json:"logs"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

type GenerationLogEntry struct {
	Timestamp    string          `json:"timestamp"`
	TemplateID   string          `json:"template_id"`
	Request      json.RawMessage `json:"request,omitempty"`
	RawBody      string          `json:"raw_body,omitempty"`
	StatusCode   int             `json:"status_code"`
	IPAddress    string          `json:"ip_address"`
	ResponseTime int64           `json:"response_time"`
}

// GetAllLogs godoc
// @Summary List activity logs
// @Tags logs
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param page query int false "Page number" default(1)
// @Param method query string false "Filter by HTTP method"
// @Param path query string false "Filter by path substring"
// @Success 200 {object} LogsResponse
// @Router /logs [get]
func (h *LogsHandler) GetAllLogs(c *gin.Context) {
	limit, page, offset := pagination(c)
	method := c.Query("method")
	path := c.Query("path")

	var logs []models.ActivityLog
	var total int64
	var err error

	switch {
	case method != "":
		logs, total, err = h.activityLogService.GetLogsByMethod(method, limit, offset)
	case path != "":
		logs, total, err = h.activityLogService.GetLogsByPath(path, limit, offset)
	default:
		logs, total, err = h.activityLogService.GetAllLogs(limit, offset)
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch logs"})
		return
	}

	c.JSON(http.StatusOK, LogsResponse{
		Logs:       logs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	})
}

// GetLogStats godoc
// @Summary Request counts by method, path and status
// @Tags logs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /logs/stats [get]
func (h *LogsHandler) GetLogStats(c *gin.Context) {
	logs, total, err := h.activityLogService.GetAllLogs(0, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch log stats"})
		return
	}

	methodCounts := make(map[string]int)
	pathCounts := make(map[string]int)
	statusCounts := make(map[int]int)

	for _, log := range logs {
		methodCounts[log.Method]++
		pathCounts[log.Path]++
		statusCounts[log.StatusCode]++
	}

	c.JSON(http.StatusOK, gin.H{
		"total_requests": total,
		"methods":        methodCounts,
		"paths":          pathCounts,
		"status_codes":   statusCounts,
	})
}

// GetGenerationLogs godoc
// @Summary Generation requests with the variables callers sent
// @Tags logs
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} map[string]interface{}
// @Router /logs/generations [get]
func (h *LogsHandler) GetGenerationLogs(c *gin.Context) {
	limit, page, offset := pagination(c)

	logs, total, err := h.activityLogService.GetLogsByPath("/generate", limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch generation logs"})
		return
	}

	entries := make([]GenerationLogEntry, 0, len(logs))
	for _, log := range logs {
		if log.Method != http.MethodPost || log.RequestBody == "" {
			continue
		}
		entry := GenerationLogEntry{
			Timestamp:    log.CreatedAt.UTC().Format(time.RFC3339),
			TemplateID:   extractTemplateID(log.Path),
			StatusCode:   log.StatusCode,
			IPAddress:    log.IPAddress,
			ResponseTime: log.ResponseTime,
		}
		if json.Valid([]byte(log.RequestBody)) {
			entry.Request = json.RawMessage(log.RequestBody)
		} else {
			entry.RawBody = log.RequestBody
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"generations": entries,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": totalPages(total, limit),
	})
}

// extractTemplateID pulls the id out of "/api/v1/templates/<id>/generate".
func extractTemplateID(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "templates" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return "unknown"
}
