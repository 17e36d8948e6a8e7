package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"PM-TMPL/internal"
	"PM-TMPL/internal/models"
	"PM-TMPL/internal/repository"
	"PM-TMPL/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a migrated sqlite database private to the test.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, internal.Migrate(db))

	t.Cleanup(func() { _ = internal.CloseDB(db) })
	return db
}

func createTeam(t *testing.T, db *gorm.DB, id uint, name string) *models.Team {
	t.Helper()
	team := &models.Team{ID: id, Name: name}
	require.NoError(t, db.Create(team).Error)
	return team
}

func strPtr(s string) *string { return &s }

type rowCounts struct {
	generations, projects, details, tasks int64
}

func countRows(t *testing.T, db *gorm.DB) rowCounts {
	t.Helper()
	var c rowCounts
	require.NoError(t, db.Model(&models.Generation{}).Count(&c.generations).Error)
	require.NoError(t, db.Model(&models.Project{}).Count(&c.projects).Error)
	require.NoError(t, db.Model(&models.ProjectDetails{}).Count(&c.details).Error)
	require.NoError(t, db.Model(&models.Task{}).Count(&c.tasks).Error)
	return c
}

// failingUnitOfWork wraps a real unit of work and fails the write after
// failAfter successful creates, inside the same transaction.
type failingUnitOfWork struct {
	inner     repository.UnitOfWork
	failAfter int
}

func (f *failingUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, w repository.GenerationWriter) error) error {
	return f.inner.WithinTx(ctx, func(ctx context.Context, w repository.GenerationWriter) error {
		return fn(ctx, &failingWriter{inner: w, remaining: f.failAfter})
	})
}

type failingWriter struct {
	inner     repository.GenerationWriter
	remaining int
}

var errInjected = errors.New("injected write failure")

func (w *failingWriter) step() error {
	if w.remaining == 0 {
		return errInjected
	}
	w.remaining--
	return nil
}

func (w *failingWriter) CreateGeneration(ctx context.Context, g *models.Generation) error {
	if err := w.step(); err != nil {
		return err
	}
	return w.inner.CreateGeneration(ctx, g)
}

func (w *failingWriter) CreateProject(ctx context.Context, p *models.Project) error {
	if err := w.step(); err != nil {
		return err
	}
	return w.inner.CreateProject(ctx, p)
}

func (w *failingWriter) CreateProjectDetails(ctx context.Context, d *models.ProjectDetails) error {
	if err := w.step(); err != nil {
		return err
	}
	return w.inner.CreateProjectDetails(ctx, d)
}

func (w *failingWriter) CreateTask(ctx context.Context, tk *models.Task) error {
	if err := w.step(); err != nil {
		return err
	}
	return w.inner.CreateTask(ctx, tk)
}

// memoryBlobStore is an in-process storage.BlobStore.
type memoryBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryBlobStore() *memoryBlobStore {
	return &memoryBlobStore{objects: make(map[string][]byte)}
}

func (m *memoryBlobStore) UploadFile(_ context.Context, reader io.Reader, objectName, _ string) (*storage.UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = data
	return &storage.UploadResult{ObjectName: objectName, Size: int64(len(data))}, nil
}

func (m *memoryBlobStore) ReadFile(_ context.Context, objectName string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objectName]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryBlobStore) GetSignedURL(objectName string, _ time.Duration) (string, error) {
	return "https://signed.example.com/" + objectName, nil
}
