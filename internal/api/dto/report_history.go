package dto

import (
	"encoding/json"
	"time"
)

// ReportHistoryResponse is the DTO for API responses containing one
// briefing run record.
type ReportHistoryResponse struct {
	ID           uint            `json:"id"`
	UserEmail    string          `json:"user_email"`
	Status       string          `json:"status"`
	TickerCount  int             `json:"ticker_count"`
	TotalValue   float64         `json:"total_value"`
	Verdicts     json.RawMessage `json:"verdicts,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}
