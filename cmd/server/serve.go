package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PM-TMPL/internal/handlers"
	"PM-TMPL/internal/services"

	"github.com/spf13/cobra"
)

var servePort string

// @title PM Template API
// @version 1.0
// @description Project templates with placeholders, materialised into team projects and tasks.
// @host localhost:8080
// @BasePath /api/v1
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the HTTP API.

Environment variables:
  SERVER_PORT                      Listen port (default: 8080)
  SERVER_ALLOW_ORIGINS             Comma separated CORS origins
  DATABASE_DRIVER                  mysql or sqlite
  DATABASE_SQLITE_PATH             SQLite file when DATABASE_DRIVER=sqlite
  GCS_BUCKET_NAME                  Enables template snapshots
  GOTENBERG_URL                    PDF converter for generation reports
  EVENTS_VALKEY_ADDR               Enables generation.completed events
  RETENTION_ACTIVITY_LOG_MAX_AGE   Activity log retention, 0 disables`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if servePort != "" {
		a.cfg.Server.Port = servePort
	}

	activityLog := services.NewActivityLogService(a.db)
	retention := services.NewRetentionService(activityLog, a.cfg.Retention.ActivityLogMaxAge)
	retention.Start()
	defer retention.Stop()

	svc := handlers.Services{
		Templates:   a.templates(),
		Teams:       services.NewTeamService(a.store),
		Generations: a.generations(),
		ActivityLog: activityLog,
	}
	if a.cfg.Gotenberg.URL != "" {
		reports, err := services.NewReportService(a.cfg.Gotenberg.URL, a.cfg.Gotenberg.Timeout)
		if err != nil {
			slog.Warn("generation reports disabled", "error", err)
		} else {
			svc.Reports = reports
		}
	}

	router := handlers.NewRouter(a.cfg, svc)

	addr := ":" + a.cfg.Server.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down...")
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	activityLog.Flush()

	slog.Info("Server stopped")
	return nil
}
