package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority values shared by task definitions and generated tasks.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Priorities lists the accepted priority values in ascending order.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

type Template struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	CreatedBy   string         `gorm:"type:varchar(191)" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Projects []ProjectDefinition `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"projects"`
}

type ProjectDefinition struct {
	ID           string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	TemplateID   string  `gorm:"type:varchar(36);not null;index" json:"template_id"`
	Position     int     `gorm:"not null;default:0" json:"position"`
	Name         string  `gorm:"not null" json:"name"`
	Description  *string `gorm:"type:text" json:"description"`
	StartDay     int     `gorm:"not null;default:0" json:"start_day"`
	DurationDays int     `gorm:"not null;default:0" json:"duration_days"`

	Tasks   []TaskDefinition          `gorm:"foreignKey:ProjectDefinitionID;constraint:OnDelete:CASCADE" json:"tasks"`
	Details *ProjectDetailsDefinition `gorm:"foreignKey:ProjectDefinitionID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

type TaskDefinition struct {
	ID                  string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectDefinitionID string  `gorm:"type:varchar(36);not null;index" json:"project_definition_id"`
	Position            int     `gorm:"not null;default:0" json:"position"`
	Title               string  `gorm:"not null" json:"title"`
	Description         *string `gorm:"type:text" json:"description"`
	Priority            string  `gorm:"type:varchar(16);not null;default:'medium'" json:"priority"`
	StartDay            int     `gorm:"not null;default:0" json:"start_day"`
	DurationDays        int     `gorm:"not null;default:0" json:"duration_days"`
}

// DetailsFields holds the free-text brief attached to a project. It is
// embedded both in the definition and in the generated ProjectDetails so the
// two stay column-compatible.
type DetailsFields struct {
	ClientName     string `gorm:"type:text" json:"client_name"`
	Website        string `gorm:"type:text" json:"website"`
	Niche          string `gorm:"type:text" json:"niche"`
	TargetAudience string `gorm:"type:text" json:"target_audience"`
	Goals          string `gorm:"type:text" json:"goals"`
	Competitors    string `gorm:"type:text" json:"competitors"`
	Notes          string `gorm:"type:text" json:"notes"`
}

// TextFields returns pointers to every string-valued field, in declaration
// order. Placeholder scanning and substitution both walk this list.
func (d *DetailsFields) TextFields() []*string {
	return []*string{
		&d.ClientName,
		&d.Website,
		&d.Niche,
		&d.TargetAudience,
		&d.Goals,
		&d.Competitors,
		&d.Notes,
	}
}

type SubKeyword struct {
	Keyword string `json:"keyword"`
	Volume  int    `json:"volume" validate:"gte=0"`
}

type KeywordPlanEntry struct {
	Page              string       `json:"page"`
	MainKeyword       string       `json:"main_keyword"`
	MainKeywordVolume int          `json:"main_keyword_volume" validate:"gte=0"`
	SubKeywords       []SubKeyword `json:"sub_keywords" validate:"dive"`
}

type ProjectDetailsDefinition struct {
	ID                  string `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectDefinitionID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"project_definition_id"`
	DetailsFields
	KeywordsPlan []KeywordPlanEntry `gorm:"serializer:json;type:text" json:"keywords_plan"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (p *ProjectDefinition) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (t *TaskDefinition) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (d *ProjectDetailsDefinition) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
