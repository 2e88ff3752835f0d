package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-alpha-seek/internal/batch/config"
	"golang-alpha-seek/internal/batch/delivery/consumer"
	"golang-alpha-seek/internal/batch/repository"
	"golang-alpha-seek/internal/batch/service"
	"golang-alpha-seek/pkg/chart"
	"golang-alpha-seek/pkg/common"
	"golang-alpha-seek/pkg/decoder"
	"golang-alpha-seek/pkg/logger"
	"golang-alpha-seek/pkg/mailer"
	"golang-alpha-seek/pkg/postgres"
	"golang-alpha-seek/pkg/redis"
	"golang-alpha-seek/pkg/telegram"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the batch service with the cron dispatcher and stream consumer",
	Run:   runServe,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one briefing cycle inline and exits",
	Run:   runOnce,
}

// buildBatchService wires the full dependency graph shared by serve and run
// modes. The returned cleanup closes the database and redis connections.
func buildBatchService(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (service.BatchService, *redis.Client, func(), error) {
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	cleanup := func() {
		if sqlDB, err := db.DB.DB(); err == nil {
			sqlDB.Close()
		}
		redisClient.Close()
	}

	subscriptionRepo := repository.NewSubscriptionRepository(db.DB)
	historyRepo := repository.NewReportHistoryRepository(db.DB)
	marketRepo := repository.NewYahooFinanceRepository(cfg, appLogger)

	var newsRepo repository.NewsRepository
	switch cfg.News.Provider {
	case "tavily":
		newsRepo = repository.NewTavilyNewsRepository(cfg, appLogger)
	case "rss":
		newsRepo = repository.NewRSSNewsRepository(cfg, appLogger)
	default:
		cleanup()
		return nil, nil, nil, fmt.Errorf("invalid news provider specified in config: %s", cfg.News.Provider)
	}

	jsonDecoder := decoder.NewJSONDecoder(appLogger)

	var narrativeRepo repository.NarrativeRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		narrativeRepo, err = repository.NewGeminiAIRepository(cfg, appLogger, jsonDecoder, genAiClient)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("failed to initialize Gemini AI repository: %w", err)
		}
	default:
		cleanup()
		return nil, nil, nil, fmt.Errorf("invalid AI provider specified in config: %s", cfg.AI.Provider)
	}

	chartRenderer, err := chart.NewPNGRenderer(cfg.Batch.ChartDir, appLogger)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to initialize chart renderer: %w", err)
	}

	mail, err := mailer.NewSMTPMailer(cfg.SMTP, appLogger)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("failed to initialize Telegram notifier: %w", err)
		}
	}

	pipeline := service.NewPipelineService(cfg, appLogger, marketRepo, newsRepo, narrativeRepo, chartRenderer, mail)
	batchSvc := service.NewBatchService(redisClient.Client, subscriptionRepo, historyRepo, pipeline, notifier, appLogger)
	return batchSvc, redisClient, cleanup, nil
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Batch Service", zap.String("name", cfg.App.Name))

	batchSvc, redisClient, cleanup, err := buildBatchService(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build batch service", zap.Error(err))
	}
	defer cleanup()

	// MKSTREAM creates the stream if it doesn't exist
	if err := redisClient.XGroupCreateMkStream(ctx, common.RedisStreamPortfolioReport, common.RedisStreamGroup, "0").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}

	cronRunner := cron.New()
	if _, err := cronRunner.AddFunc(cfg.Batch.Schedule, func() {
		if err := batchSvc.Dispatch(ctx); err != nil {
			appLogger.Error("Failed to dispatch batch cycle", logger.ErrorField(err))
		}
	}); err != nil {
		appLogger.Fatal("Invalid batch schedule", logger.ErrorField(err), logger.StringField("schedule", cfg.Batch.Schedule))
	}
	cronRunner.Start()

	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, batchSvc, appLogger)
	redisConsumer.Start(ctx)

	appLogger.Info("Batch service started. Waiting for scheduled cycles...", logger.StringField("schedule", cfg.Batch.Schedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down batch service...")
	cancel()
	<-cronRunner.Stop().Done()
	redisConsumer.Stop()
	appLogger.Info("Batch service stopped.")
}

func runOnce(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Running one briefing cycle", zap.String("name", cfg.App.Name))

	batchSvc, _, cleanup, err := buildBatchService(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build batch service", zap.Error(err))
	}
	defer cleanup()

	if err := batchSvc.RunOnce(ctx); err != nil {
		appLogger.Fatal("Briefing cycle failed", zap.Error(err))
	}
	appLogger.Info("Briefing cycle finished")
}

func main() {
	rootCmd := &cobra.Command{Use: "batch-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-batch.yaml", "Path to the configuration file")
	runCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-batch.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing batch-service CLI: %s\n", err)
		os.Exit(1)
	}
}
