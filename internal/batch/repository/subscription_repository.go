package repository

import (
	"context"

	"golang-alpha-seek/internal/entity"

	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a read-only subscription repository for
// the batch side.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// FindActive returns all active subscriptions in insertion order, so that
// grouping by user preserves first-seen ordering.
func (r *subscriptionRepository) FindActive(ctx context.Context) ([]entity.Subscription, error) {
	var subscriptions []entity.Subscription
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}
