package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"PM-TMPL/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_RecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := NewActivityLogService(testDB(t))

	r := gin.New()
	r.Use(logs.LoggingMiddleware())
	r.POST("/api/v1/templates/:id/generate", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	r.GET("/api/v1/teams", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	body := `{"team_id":5,"start_date":"2024-01-08"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/templates/abc/generate", strings.NewReader(body))
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/teams?limit=5", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	logs.Flush()

	all, total, err := logs.GetAllLogs(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	posts, total, err := logs.GetLogsByMethod("post", 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, body, posts[0].RequestBody)
	assert.Equal(t, http.StatusCreated, posts[0].StatusCode)

	byPath, _, err := logs.GetLogsByPath("/teams", 10, 0)
	require.NoError(t, err)
	require.Len(t, byPath, 1)
	assert.Equal(t, `{"limit":"5"}`, byPath[0].QueryParams)
	assert.Empty(t, byPath[0].RequestBody)
}

func TestLoggingMiddleware_TruncatesLargeBodies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := NewActivityLogService(testDB(t))

	r := gin.New()
	r.Use(logs.LoggingMiddleware())
	r.POST("/api/v1/templates", func(c *gin.Context) { c.Status(http.StatusCreated) })

	big := strings.Repeat("x", maxLoggedBodyBytes+1)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/templates", strings.NewReader(big)))
	logs.Flush()

	all, _, err := logs.GetAllLogs(0, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, strings.HasPrefix(all[0].RequestBody, "[Large body: 10001 bytes] "))
}

func TestRetentionPurge(t *testing.T) {
	db := testDB(t)
	logs := NewActivityLogService(db)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, age := range []time.Duration{time.Hour, 47 * time.Hour, 49 * time.Hour, 30 * 24 * time.Hour} {
		require.NoError(t, db.Create(&models.ActivityLog{
			Method:    http.MethodGet,
			Path:      "/api/v1/health",
			CreatedAt: now.Add(-age),
		}).Error)
	}

	retention := NewRetentionService(logs, 48*time.Hour)
	retention.now = func() time.Time { return now }

	assert.Equal(t, int64(2), retention.Purge())
	assert.Equal(t, int64(0), retention.Purge())

	_, total, err := logs.GetAllLogs(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRetentionDisabled(t *testing.T) {
	retention := NewRetentionService(NewActivityLogService(testDB(t)), 0)
	retention.Start()
	assert.Nil(t, retention.ticker)
	retention.Stop()
}
