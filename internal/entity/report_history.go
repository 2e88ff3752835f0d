package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// Report run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ReportHistory records one user's briefing run within a batch cycle.
type ReportHistory struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserEmail    string         `gorm:"not null;index" json:"user_email"`
	Status       string         `gorm:"not null" json:"status"`
	TickerCount  int            `gorm:"not null" json:"ticker_count"`
	TotalValue   float64        `json:"total_value"`
	Verdicts     datatypes.JSON `gorm:"type:jsonb" json:"verdicts"`
	ErrorMessage sql.NullString `json:"error_message"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
}

func (ReportHistory) TableName() string {
	return "report_histories"
}
