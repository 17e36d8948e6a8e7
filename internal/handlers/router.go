package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"PM-TMPL/internal/config"
	"PM-TMPL/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services bundles what the router needs. Reports may be nil.
type Services struct {
	Templates   *services.TemplateService
	Teams       *services.TeamService
	Generations *services.GenerationService
	ActivityLog *services.ActivityLogService
	Reports     ReportRenderer
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if svc.ActivityLog != nil {
		router.Use(svc.ActivityLog.LoggingMiddleware())
	}

	templateHandler := NewTemplateHandler(svc.Templates, svc.Generations)
	teamHandler := NewTeamHandler(svc.Teams)
	generationHandler := NewGenerationHandler(svc.Generations, svc.Reports)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", HealthCheck)

		v1.POST("/teams", teamHandler.CreateTeam)
		v1.GET("/teams", teamHandler.ListTeams)
		v1.GET("/teams/:id", teamHandler.GetTeam)
		v1.GET("/teams/:id/projects", teamHandler.ListProjects)

		v1.POST("/templates", templateHandler.CreateTemplate)
		v1.GET("/templates", templateHandler.ListTemplates)
		v1.POST("/templates/import", templateHandler.ImportTemplate)
		v1.GET("/templates/:id", templateHandler.GetTemplate)
		v1.PUT("/templates/:id", templateHandler.UpdateTemplate)
		v1.DELETE("/templates/:id", templateHandler.DeleteTemplate)
		v1.GET("/templates/:id/placeholders", templateHandler.GetPlaceholders)
		v1.POST("/templates/:id/generate", templateHandler.Generate)
		v1.POST("/templates/:id/export", templateHandler.ExportTemplate)

		v1.GET("/generations/:id", generationHandler.GetGeneration)
		v1.GET("/generations/:id/report", generationHandler.DownloadReport)

		if svc.ActivityLog != nil {
			logsHandler := NewLogsHandler(svc.ActivityLog)
			v1.GET("/logs", logsHandler.GetAllLogs)
			v1.GET("/logs/stats", logsHandler.GetLogStats)
			v1.GET("/logs/generations", logsHandler.GetGenerationLogs)
		}
	}

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	slog.Info("API router initialized", "environment", cfg.Server.Environment)
	return router
}

// HealthCheck godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		slog.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}
