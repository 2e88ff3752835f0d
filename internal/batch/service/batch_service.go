package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"golang-alpha-seek/internal/batch/dto"
	"golang-alpha-seek/internal/batch/repository"
	"golang-alpha-seek/internal/entity"
	"golang-alpha-seek/pkg/common"
	"golang-alpha-seek/pkg/logger"
	"golang-alpha-seek/pkg/telegram"

	"github.com/redis/go-redis/v9"
)

// BatchService drives one briefing cycle across all subscribed users.
// RunOnce executes everything inline; Dispatch and ProcessTask split the
// same work across a redis stream for serve mode.
type BatchService interface {
	RunOnce(ctx context.Context) error
	Dispatch(ctx context.Context) error
	ProcessTask(ctx context.Context)
}

// NewBatchService creates a new BatchService.
func NewBatchService(
	redisClient *redis.Client,
	subscriptionRepo repository.SubscriptionRepository,
	historyRepo repository.ReportHistoryRepository,
	pipeline PipelineService,
	notifier telegram.Notifier,
	log *logger.Logger,
) BatchService {
	return &batchService{
		redisClient:      redisClient,
		subscriptionRepo: subscriptionRepo,
		historyRepo:      historyRepo,
		pipeline:         pipeline,
		notifier:         notifier,
		logger:           log,
	}
}

type batchService struct {
	redisClient      *redis.Client
	subscriptionRepo repository.SubscriptionRepository
	historyRepo      repository.ReportHistoryRepository
	pipeline         PipelineService
	notifier         telegram.Notifier
	logger           *logger.Logger
}

// RunOnce loads every active subscription, groups them into per-user
// portfolios and runs each user's pipeline sequentially. One user's failure
// is recorded and reported but never stops the others.
func (s *batchService) RunOnce(ctx context.Context) error {
	startedAt := time.Now()

	tasks, err := s.loadPortfolios(ctx)
	if err != nil {
		return err
	}

	var results []telegram.UserRunResult
	for _, task := range tasks {
		result := s.runUser(ctx, task)
		results = append(results, result)
	}

	if s.notifier != nil && len(results) > 0 {
		if err := s.notifier.SendMessage(telegram.FormatBatchSummary(startedAt, results)); err != nil {
			s.logger.Warn("Failed to send batch summary", logger.ErrorField(err))
		}
	}

	s.logger.InfoContext(ctx, "Batch cycle complete",
		logger.IntField("users", len(results)),
		logger.Field("duration", time.Since(startedAt)),
	)
	return nil
}

// Dispatch publishes one stream task per user portfolio instead of running
// the pipelines inline.
func (s *batchService) Dispatch(ctx context.Context) error {
	tasks, err := s.loadPortfolios(ctx)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		payload, err := json.Marshal(task)
		if err != nil {
			s.logger.Error("Failed to marshal portfolio task", logger.ErrorField(err), logger.StringField("user", task.UserEmail))
			continue
		}
		if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
			Stream: common.RedisStreamPortfolioReport,
			Values: map[string]interface{}{"payload": string(payload)},
		}).Err(); err != nil {
			s.logger.Error("Failed to enqueue portfolio task", logger.ErrorField(err), logger.StringField("user", task.UserEmail))
			continue
		}
		s.logger.InfoContext(ctx, "Portfolio task enqueued", logger.StringField("user", task.UserEmail))
	}
	return nil
}

// ProcessTask dequeues and runs a single portfolio task.
func (s *batchService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamPortfolioReport, ">"},
		Count:    1,
		Block:    2 * time.Second,
		NoAck:    true,
	}).Result()

	if err != nil {
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]
	taskData, ok := message.Values["payload"].(string)
	if !ok {
		s.logger.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}

	var task dto.PortfolioTask
	if err := json.Unmarshal([]byte(taskData), &task); err != nil {
		s.logger.Error("Failed to unmarshal portfolio task", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.runUser(ctx, task)
}

// loadPortfolios groups active subscriptions into per-user tasks. Users
// appear in first-seen subscription order, and so do the tickers inside
// each portfolio.
func (s *batchService) loadPortfolios(ctx context.Context) ([]dto.PortfolioTask, error) {
	subscriptions, err := s.subscriptionRepo.FindActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load subscriptions", logger.ErrorField(err))
		return nil, err
	}

	byUser := make(map[string]int)
	var tasks []dto.PortfolioTask
	for _, sub := range subscriptions {
		idx, seen := byUser[sub.UserEmail]
		if !seen {
			idx = len(tasks)
			byUser[sub.UserEmail] = idx
			tasks = append(tasks, dto.PortfolioTask{UserEmail: sub.UserEmail})
		}
		tasks[idx].Portfolio = append(tasks[idx].Portfolio, dto.Holding{
			Ticker: sub.Ticker,
			Shares: sub.Shares,
		})
	}

	s.logger.InfoContext(ctx, "Portfolios loaded",
		logger.IntField("subscriptions", len(subscriptions)),
		logger.IntField("users", len(tasks)),
	)
	return tasks, nil
}

// runUser executes one user's pipeline inside a history record. Panics are
// already contained by the pipeline's own goroutine guards; errors here are
// captured into the history row and the run result.
func (s *batchService) runUser(ctx context.Context, task dto.PortfolioTask) telegram.UserRunResult {
	history := &entity.ReportHistory{
		UserEmail:   task.UserEmail,
		Status:      entity.StatusRunning,
		TickerCount: len(task.Portfolio),
		StartedAt:   time.Now(),
	}
	if err := s.historyRepo.Create(ctx, history); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create report history", logger.ErrorField(err), logger.StringField("user", task.UserEmail))
	}

	state, err := s.pipeline.Run(ctx, dto.NewPipelineState(task.UserEmail, task.Portfolio))

	history.TotalValue = state.TotalValue
	history.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}

	result := telegram.UserRunResult{
		UserEmail:   task.UserEmail,
		TickerCount: len(task.Portfolio),
		TotalValue:  state.TotalValue,
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "User briefing failed", logger.ErrorField(err), logger.StringField("user", task.UserEmail))
		history.Status = entity.StatusFailed
		history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		result.Error = err.Error()

		if s.notifier != nil {
			if alertErr := s.notifier.SendMessage(telegram.FormatErrorAlert(time.Now(), "Briefing failed for "+task.UserEmail+": "+err.Error())); alertErr != nil {
				s.logger.Warn("Failed to send error alert", logger.ErrorField(alertErr))
			}
		}
	} else {
		history.Status = entity.StatusCompleted
		result.IsSuccess = true

		if verdicts, marshalErr := json.Marshal(state.Positions); marshalErr == nil {
			history.Verdicts = verdicts
		}
	}

	if updateErr := s.historyRepo.Update(ctx, history); updateErr != nil {
		s.logger.ErrorContext(ctx, "Failed to update report history", logger.ErrorField(updateErr), logger.StringField("user", task.UserEmail))
	}

	return result
}
