package services

import (
	"log/slog"
	"time"
)

// RetentionService periodically purges activity logs older than maxAge.
type RetentionService struct {
	logs     *ActivityLogService
	maxAge   time.Duration
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	now      func() time.Time
}

func NewRetentionService(logs *ActivityLogService, maxAge time.Duration) *RetentionService {
	return &RetentionService{
		logs:     logs,
		maxAge:   maxAge,
		interval: time.Hour,
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

func (r *RetentionService) Start() {
	if r.maxAge <= 0 {
		slog.Info("activity log retention disabled")
		return
	}

	r.ticker = time.NewTicker(r.interval)
	go func() {
		for {
			select {
			case <-r.done:
				return
			case <-r.ticker.C:
				r.Purge()
			}
		}
	}()
	slog.Info("activity log retention started", "max_age", r.maxAge.String())
}

func (r *RetentionService) Stop() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	close(r.done)
	slog.Info("activity log retention stopped")
}

// Purge deletes expired logs once and returns how many were removed.
func (r *RetentionService) Purge() int64 {
	deleted, err := r.logs.DeleteOlderThan(r.now().Add(-r.maxAge))
	if err != nil {
		slog.Error("activity log purge failed", "error", err)
		return 0
	}
	if deleted > 0 {
		slog.Info("purged expired activity logs", "count", deleted)
	}
	return deleted
}
