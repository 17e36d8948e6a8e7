package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLog struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Method       string    `gorm:"type:varchar(10);not null;index" json:"method"`
	Path         string    `gorm:"type:varchar(255);not null;index" json:"path"`
	UserAgent    string    `gorm:"type:text" json:"user_agent"`
	IPAddress    string    `gorm:"type:varchar(45)" json:"ip_address"`
	RequestBody  string    `gorm:"type:text" json:"request_body"`
	QueryParams  string    `gorm:"type:text" json:"query_params"`
	StatusCode   int       `gorm:"not null" json:"status_code"`
	ResponseTime int64     `gorm:"not null" json:"response_time"` // milliseconds
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
