package repository

import (
	"context"

	"golang-alpha-seek/internal/entity"

	"gorm.io/gorm"
)

type reportHistoryRepository struct {
	db *gorm.DB
}

// NewReportHistoryRepository creates a new report history repository.
func NewReportHistoryRepository(db *gorm.DB) ReportHistoryRepository {
	return &reportHistoryRepository{db: db}
}

func (r *reportHistoryRepository) Create(ctx context.Context, history *entity.ReportHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *reportHistoryRepository) Update(ctx context.Context, history *entity.ReportHistory) error {
	return r.db.WithContext(ctx).Save(history).Error
}
