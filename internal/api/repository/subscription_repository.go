package repository

import (
	"context"

	"golang-alpha-seek/internal/entity"

	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for managing subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	FindByID(ctx context.Context, id uint) (*entity.Subscription, error)
	FindAll(ctx context.Context) ([]entity.Subscription, error)
	FindByUserEmail(ctx context.Context, userEmail string) ([]entity.Subscription, error)
	Update(ctx context.Context, subscription *entity.Subscription) error
	Delete(ctx context.Context, id uint) error
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

type subscriptionRepository struct {
	db *gorm.DB
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id uint) (*entity.Subscription, error) {
	var subscription entity.Subscription
	if err := r.db.WithContext(ctx).First(&subscription, id).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *subscriptionRepository) FindAll(ctx context.Context) ([]entity.Subscription, error) {
	var subscriptions []entity.Subscription
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *subscriptionRepository) FindByUserEmail(ctx context.Context, userEmail string) ([]entity.Subscription, error) {
	var subscriptions []entity.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Order("id ASC").
		Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, subscription *entity.Subscription) error {
	return r.db.WithContext(ctx).Save(subscription).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Subscription{}, id).Error
}
