package consumer

import (
	"context"
	"sync"
	"time"

	"golang-alpha-seek/internal/batch/config"
	"golang-alpha-seek/internal/batch/service"
	"golang-alpha-seek/pkg/common"
	"golang-alpha-seek/pkg/logger"
	"golang-alpha-seek/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisConsumer manages the consumption of portfolio tasks from a Redis
// stream.
type RedisConsumer struct {
	cfg          *config.Config
	redisClient  *redis.Client
	batchService service.BatchService
	logger       *logger.Logger
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	batchService service.BatchService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:          cfg,
		redisClient:  redisClient,
		batchService: batchService,
		logger:       log,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the consumer's task processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.batchService.ProcessTask, common.RedisStreamPortfolioReport, c.cfg.Batch.RedisStreamTimeout)
}

func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
