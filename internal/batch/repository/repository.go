package repository

import (
	"context"

	"golang-alpha-seek/internal/batch/dto"
	"golang-alpha-seek/internal/entity"
)

// SubscriptionRepository reads the subscription store.
type SubscriptionRepository interface {
	FindActive(ctx context.Context) ([]entity.Subscription, error)
}

// ReportHistoryRepository records per-user run outcomes.
type ReportHistoryRepository interface {
	Create(ctx context.Context, history *entity.ReportHistory) error
	Update(ctx context.Context, history *entity.ReportHistory) error
}

// MarketDataRepository fetches quote snapshots and historical series.
type MarketDataRepository interface {
	GetMetrics(ctx context.Context, ticker string) (*dto.StockMetrics, error)
	GetHistory(ctx context.Context, param dto.GetStockDataParam) (*dto.StockSeries, error)
}

// NewsRepository searches recent market news.
type NewsRepository interface {
	Search(ctx context.Context, param dto.SearchNewsParam) ([]dto.NewsItem, error)
}

// NarrativeRepository generates and decodes a per-ticker verdict. A decode
// failure is returned as an error; the fallback substitution is the
// caller's policy, not the adapter's.
type NarrativeRepository interface {
	GenerateVerdict(ctx context.Context, req dto.VerdictRequest) (*dto.TickerVerdict, error)
}
