package service

import (
	"context"
	"encoding/json"

	"golang-alpha-seek/internal/api/dto"
	"golang-alpha-seek/internal/api/repository"
	"golang-alpha-seek/internal/entity"
	"golang-alpha-seek/pkg/logger"
)

const defaultHistoryLimit = 50

// ReportHistoryService exposes briefing run records.
type ReportHistoryService interface {
	GetRecent(ctx context.Context, limit int) ([]dto.ReportHistoryResponse, error)
	GetByUserEmail(ctx context.Context, userEmail string, limit int) ([]dto.ReportHistoryResponse, error)
}

// NewReportHistoryService creates a new ReportHistoryService.
func NewReportHistoryService(repo repository.ReportHistoryRepository, log *logger.Logger) ReportHistoryService {
	return &reportHistoryService{repo: repo, logger: log}
}

type reportHistoryService struct {
	repo   repository.ReportHistoryRepository
	logger *logger.Logger
}

func (s *reportHistoryService) GetRecent(ctx context.Context, limit int) ([]dto.ReportHistoryResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	histories, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list report histories", logger.ErrorField(err))
		return nil, err
	}
	return toReportHistoryResponses(histories), nil
}

func (s *reportHistoryService) GetByUserEmail(ctx context.Context, userEmail string, limit int) ([]dto.ReportHistoryResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	histories, err := s.repo.FindByUserEmail(ctx, userEmail, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list user report histories", logger.ErrorField(err), logger.StringField("user", userEmail))
		return nil, err
	}
	return toReportHistoryResponses(histories), nil
}

func toReportHistoryResponses(histories []entity.ReportHistory) []dto.ReportHistoryResponse {
	responses := make([]dto.ReportHistoryResponse, len(histories))
	for i, h := range histories {
		resp := dto.ReportHistoryResponse{
			ID:          h.ID,
			UserEmail:   h.UserEmail,
			Status:      h.Status,
			TickerCount: h.TickerCount,
			TotalValue:  h.TotalValue,
			StartedAt:   h.StartedAt,
		}
		if len(h.Verdicts) > 0 {
			resp.Verdicts = json.RawMessage(h.Verdicts)
		}
		if h.ErrorMessage.Valid {
			resp.ErrorMessage = h.ErrorMessage.String
		}
		if h.CompletedAt.Valid {
			completedAt := h.CompletedAt.Time
			resp.CompletedAt = &completedAt
		}
		responses[i] = resp
	}
	return responses
}
