package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"PM-TMPL/internal/models"
	"PM-TMPL/internal/processor"
	"PM-TMPL/internal/repository"
	"PM-TMPL/internal/storage"
)

const snapshotURLExpiry = 15 * time.Minute

type TemplateService struct {
	repo  repository.TemplateRepo
	blobs storage.BlobStore // nil when snapshots are disabled
}

func NewTemplateService(repo repository.TemplateRepo, blobs storage.BlobStore) *TemplateService {
	return &TemplateService{
		repo:  repo,
		blobs: blobs,
	}
}

// SnapshotResult describes an exported template snapshot.
type SnapshotResult struct {
	ObjectName string `json:"object_name"`
	SignedURL  string `json:"signed_url,omitempty"`
	Size       int64  `json:"size"`
}

func (s *TemplateService) CreateTemplate(ctx context.Context, in TemplateInput) (*models.Template, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	template := in.toModel()
	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		return nil, err
	}

	slog.Info("template created", "template_id", template.ID, "projects", len(template.Projects))
	return s.GetTemplate(ctx, template.ID)
}

func (s *TemplateService) GetTemplate(ctx context.Context, templateID string) (*models.Template, error) {
	template, err := s.repo.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return template, nil
}

func (s *TemplateService) ListTemplates(ctx context.Context, limit, offset int) ([]models.Template, int64, error) {
	return s.repo.ListTemplates(ctx, limit, offset)
}

// UpdateTemplate replaces the template's fields and its whole definition graph.
func (s *TemplateService) UpdateTemplate(ctx context.Context, templateID string, in TemplateInput) (*models.Template, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	template := in.toModel()
	template.ID = templateID
	if err := s.repo.ReplaceTemplate(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	return s.GetTemplate(ctx, templateID)
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, templateID string) error {
	if err := s.repo.DeleteTemplate(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	return nil
}

// GetPlaceholders returns the placeholder names a generation of this
// template must supply, in first-occurrence order.
func (s *TemplateService) GetPlaceholders(ctx context.Context, templateID string) ([]string, error) {
	template, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	placeholders := processor.ExtractTemplatePlaceholders(template)
	if placeholders == nil {
		placeholders = []string{}
	}
	return placeholders, nil
}

// ExportTemplate uploads a JSON snapshot of the template graph.
func (s *TemplateService) ExportTemplate(ctx context.Context, templateID string) (*SnapshotResult, error) {
	if s.blobs == nil {
		return nil, ErrStorageDisabled
	}

	template, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(templateInputFromModel(template))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template snapshot: %w", err)
	}

	objectName := storage.SnapshotObjectName(template.ID, time.Now())
	result, err := s.blobs.UploadFile(ctx, bytes.NewReader(payload), objectName, "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to upload template snapshot: %w", err)
	}

	snapshot := &SnapshotResult{ObjectName: result.ObjectName, Size: result.Size}

	signedURL, err := s.blobs.GetSignedURL(objectName, snapshotURLExpiry)
	if err != nil {
		// the object exists, only the convenience link is missing
		slog.Warn("failed to sign snapshot url", "object", objectName, "error", err)
	} else {
		snapshot.SignedURL = signedURL
	}

	return snapshot, nil
}

// ImportTemplate creates a new template from a stored snapshot.
func (s *TemplateService) ImportTemplate(ctx context.Context, objectName, createdBy string) (*models.Template, error) {
	if s.blobs == nil {
		return nil, ErrStorageDisabled
	}
	if objectName == "" {
		return nil, &ValidationError{Message: "object_name is required"}
	}

	reader, err := s.blobs.ReadFile(ctx, objectName)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, &ValidationError{Message: fmt.Sprintf("snapshot %s does not exist", objectName)}
		}
		return nil, fmt.Errorf("failed to read template snapshot: %w", err)
	}
	defer reader.Close()

	var in TemplateInput
	if err := json.NewDecoder(reader).Decode(&in); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid template snapshot: %v", err)}
	}
	if createdBy != "" {
		in.CreatedBy = createdBy
	}

	return s.CreateTemplate(ctx, in)
}
