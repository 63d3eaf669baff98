package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-token-sentry/internal/sentry/adapter"
	"golang-token-sentry/internal/sentry/adjuster"
	"golang-token-sentry/internal/sentry/config"
	delivery "golang-token-sentry/internal/sentry/delivery/http"
	"golang-token-sentry/internal/sentry/delivery/runner"
	_ "golang-token-sentry/internal/sentry/docs"
	"golang-token-sentry/internal/sentry/repository"
	"golang-token-sentry/internal/sentry/service"
	"golang-token-sentry/pkg/logger"
	"golang-token-sentry/pkg/postgres"
	"golang-token-sentry/pkg/redis"
	"golang-token-sentry/pkg/telegram"

	"google.golang.org/genai"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the signal service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Signal Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize Telegram
	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}

	// Initialize AI provider
	var aiRepo repository.AIReviewRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		repo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
		}
		aiRepo = repo
	default:
		appLogger.Fatal("Invalid AI provider specified in config", logger.Field("provider", cfg.AI.Provider))
	}

	// Initialize repositories
	assetRepo := repository.NewAssetRepository(db.DB)
	signalRepo := repository.NewSignalRepository(db.DB)
	marketDataRepo := repository.NewDexScreenerRepository(cfg, appLogger)
	pumpFunRepo := repository.NewPumpFunRepository(cfg, appLogger)
	rugCheckRepo := repository.NewRugCheckRepository(cfg, appLogger)
	rateWindowRepo := repository.NewRateWindowRepository(redisClient, appLogger)
	alertCacheRepo := repository.NewAlertCacheRepository(redisClient, appLogger)

	// The insider registry is fed by the Helius webhook and read by the
	// insider adjuster.
	insiderRegistry := adapter.NewInsiderRegistry(cfg, appLogger)

	// Initialize services
	narrativeSvc := service.NewNarrativeService(cfg, appLogger)

	adjusters := []adjuster.ScoreAdjuster{
		adjuster.NewHistoryAdjuster(signalRepo, cfg.Scoring.MinHistorySamples),
		adjuster.NewAIAdjuster(aiRepo),
		adjuster.NewContractRiskAdjuster(rugCheckRepo),
		adjuster.NewNarrativeAdjuster(narrativeSvc),
		adjuster.NewInsiderAdjuster(insiderRegistry),
	}

	scoringSvc := service.NewScoringService(cfg, appLogger, adjusters)
	publisherSvc := service.NewPublisherService(cfg, appLogger, rateWindowRepo, signalRepo, telegramNotifier)
	trackerSvc := service.NewTrackerService(cfg, appLogger, marketDataRepo, signalRepo, alertCacheRepo, telegramNotifier)
	pipelineSvc := service.NewPipelineService(cfg, appLogger, assetRepo, marketDataRepo, scoringSvc, publisherSvc, trackerSvc)
	statsSvc := service.NewStatsService(cfg, appLogger, signalRepo, telegramNotifier)

	// Initialize source adapters feeding the pipeline intake
	heliusWebhook := adapter.NewHeliusWebhook(appLogger, pipelineSvc, insiderRegistry)
	adapters := []adapter.SourceAdapter{
		adapter.NewPumpFunStream(cfg, appLogger, pipelineSvc),
		adapter.NewGraduatingPoller(cfg, appLogger, pumpFunRepo, pipelineSvc),
		adapter.NewDexScreenerPoller(cfg, appLogger, marketDataRepo, pipelineSvc),
	}

	// Re-follow signals that were still open when the last process died
	if err := trackerSvc.Restore(ctx); err != nil {
		appLogger.Fatal("Failed to restore open signals", logger.ErrorField(err))
	}

	// Start pipeline consumers, adapters and tickers
	workerRunner := runner.New(cfg, appLogger, pipelineSvc, trackerSvc, narrativeSvc, adapters)
	workerRunner.Start(ctx)

	// Schedule the daily stats report
	cronRunner := cron.New()
	if _, err := cronRunner.AddFunc(cfg.Stats.DailyCron, func() {
		statsSvc.PostDailyStats(context.Background())
	}); err != nil {
		appLogger.Fatal("Invalid daily stats cron expression", logger.ErrorField(err))
	}
	cronRunner.Start()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	webhookHandler := delivery.NewWebhookHandler(cfg, appLogger, heliusWebhook)
	webhooksGroup := e.Group("/webhooks")
	webhookHandler.RegisterRoutes(webhooksGroup)

	signalHandler := delivery.NewSignalHandler(signalRepo, statsSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	signalHandler.RegisterRoutes(apiV1)

	e.GET("/swagger/*", swagger.WrapHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down signal service...")

	cronRunner.Stop()

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	workerRunner.Stop()

	appLogger.Info("Signal service stopped.")
}

// @title Token Sentry API
// @version 1.0
// @description Publishes and tracks early Solana memecoin signals.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
func main() {
	rootCmd := &cobra.Command{Use: "signal-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-signal.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing signal-service CLI: %s\n", err)
		os.Exit(1)
	}
}
