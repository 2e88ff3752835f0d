package repository

import (
	"context"

	"golang-alpha-seek/internal/entity"

	"gorm.io/gorm"
)

// ReportHistoryRepository reads briefing run records for the API.
type ReportHistoryRepository interface {
	FindRecent(ctx context.Context, limit int) ([]entity.ReportHistory, error)
	FindByUserEmail(ctx context.Context, userEmail string, limit int) ([]entity.ReportHistory, error)
}

// NewReportHistoryRepository creates a new ReportHistoryRepository.
func NewReportHistoryRepository(db *gorm.DB) ReportHistoryRepository {
	return &reportHistoryRepository{db: db}
}

type reportHistoryRepository struct {
	db *gorm.DB
}

func (r *reportHistoryRepository) FindRecent(ctx context.Context, limit int) ([]entity.ReportHistory, error) {
	var histories []entity.ReportHistory
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

func (r *reportHistoryRepository) FindByUserEmail(ctx context.Context, userEmail string, limit int) ([]entity.ReportHistory, error) {
	var histories []entity.ReportHistory
	if err := r.db.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Order("started_at DESC").
		Limit(limit).
		Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}
