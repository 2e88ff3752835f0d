package entity

import (
	"time"

	"gorm.io/gorm"
)

// Subscription is one user's standing request for briefings on a ticker.
// Many rows may share a user_email; grouped together they form the user's
// portfolio for a batch run.
type Subscription struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserEmail string         `gorm:"not null;index" json:"user_email"`
	Ticker    string         `gorm:"not null" json:"ticker"`
	Shares    float64        `gorm:"not null;default:0" json:"shares"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
