package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
)

type Team struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Project is an ordinary team project. Rows produced by a template carry the
// id of the Generation that created them; manually created rows leave it nil.
type Project struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TeamID       uint           `gorm:"not null;index" json:"team_id"`
	GenerationID *string        `gorm:"type:varchar(36);index" json:"generation_id,omitempty"`
	Name         string         `gorm:"not null" json:"name"`
	Description  *string        `gorm:"type:text" json:"description"`
	Status       string         `gorm:"type:varchar(32);not null;default:'active'" json:"status"`
	StartDate    time.Time      `json:"start_date"`
	DueDate      time.Time      `json:"due_date"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Details *ProjectDetails `gorm:"foreignKey:ProjectID" json:"details,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

type ProjectDetails struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProjectID uint `gorm:"not null;uniqueIndex" json:"project_id"`
	DetailsFields
	KeywordsPlan []KeywordPlanEntry `gorm:"serializer:json;type:text" json:"keywords_plan"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProjectID   uint           `gorm:"not null;index" json:"project_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description *string        `gorm:"type:text" json:"description"`
	Priority    string         `gorm:"type:varchar(16);not null;default:'medium'" json:"priority"`
	Status      string         `gorm:"type:varchar(32);not null;default:'todo'" json:"status"`
	StartDate   time.Time      `json:"start_date"`
	DueDate     time.Time      `json:"due_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Generation records one successful materialisation of a template.
type Generation struct {
	ID           string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	TemplateID   string            `gorm:"type:varchar(36);not null;index" json:"template_id"`
	TemplateName string            `gorm:"not null" json:"template_name"`
	TeamID       uint              `gorm:"not null;index" json:"team_id"`
	StartDate    time.Time         `json:"start_date"`
	Variables    map[string]string `gorm:"serializer:json;type:text" json:"variables"`
	ProjectCount int               `json:"project_count"`
	TaskCount    int               `json:"task_count"`
	CreatedAt    time.Time         `json:"created_at"`

	Projects []Project `gorm:"foreignKey:GenerationID" json:"projects,omitempty"`
}

func (g *Generation) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}
