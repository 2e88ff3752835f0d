package service

import (
	"context"
	"fmt"
	"strings"

	"golang-alpha-seek/internal/api/dto"
	"golang-alpha-seek/internal/api/repository"
	"golang-alpha-seek/internal/entity"
	"golang-alpha-seek/pkg/logger"
)

// SubscriptionService manages subscription CRUD for the API.
type SubscriptionService interface {
	Create(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.SubscriptionResponse, error)
	GetAll(ctx context.Context) ([]dto.SubscriptionResponse, error)
	GetByUserEmail(ctx context.Context, userEmail string) ([]dto.SubscriptionResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Delete(ctx context.Context, id uint) error
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(repo repository.SubscriptionRepository, log *logger.Logger) SubscriptionService {
	return &subscriptionService{repo: repo, logger: log}
}

type subscriptionService struct {
	repo   repository.SubscriptionRepository
	logger *logger.Logger
}

func (s *subscriptionService) Create(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if req.UserEmail == "" || !strings.Contains(req.UserEmail, "@") {
		return nil, fmt.Errorf("invalid user email")
	}
	if req.Ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	if req.Shares < 0 {
		return nil, fmt.Errorf("shares cannot be negative")
	}

	subscription := &entity.Subscription{
		UserEmail: req.UserEmail,
		Ticker:    strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Shares:    req.Shares,
		Active:    true,
	}
	if err := s.repo.Create(ctx, subscription); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create subscription", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return toSubscriptionResponse(subscription), nil
}

func (s *subscriptionService) GetByID(ctx context.Context, id uint) (*dto.SubscriptionResponse, error) {
	subscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(subscription), nil
}

func (s *subscriptionService) GetAll(ctx context.Context) ([]dto.SubscriptionResponse, error) {
	subscriptions, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list subscriptions", logger.ErrorField(err))
		return nil, err
	}
	return toSubscriptionResponses(subscriptions), nil
}

func (s *subscriptionService) GetByUserEmail(ctx context.Context, userEmail string) ([]dto.SubscriptionResponse, error) {
	subscriptions, err := s.repo.FindByUserEmail(ctx, userEmail)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list user subscriptions", logger.ErrorField(err), logger.StringField("user", userEmail))
		return nil, err
	}
	return toSubscriptionResponses(subscriptions), nil
}

func (s *subscriptionService) Update(ctx context.Context, id uint, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	subscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Shares != nil {
		if *req.Shares < 0 {
			return nil, fmt.Errorf("shares cannot be negative")
		}
		subscription.Shares = *req.Shares
	}
	if req.Active != nil {
		subscription.Active = *req.Active
	}

	if err := s.repo.Update(ctx, subscription); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update subscription", logger.ErrorField(err), logger.IntField("id", int(id)))
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	return toSubscriptionResponse(subscription), nil
}

func (s *subscriptionService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete subscription", logger.ErrorField(err), logger.IntField("id", int(id)))
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func toSubscriptionResponse(sub *entity.Subscription) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		ID:        sub.ID,
		UserEmail: sub.UserEmail,
		Ticker:    sub.Ticker,
		Shares:    sub.Shares,
		Active:    sub.Active,
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
}

func toSubscriptionResponses(subs []entity.Subscription) []dto.SubscriptionResponse {
	responses := make([]dto.SubscriptionResponse, len(subs))
	for i := range subs {
		responses[i] = *toSubscriptionResponse(&subs[i])
	}
	return responses
}
