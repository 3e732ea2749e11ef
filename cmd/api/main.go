package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cquiz/internal/adapter"
	"cquiz/internal/bank"
	"cquiz/internal/cache"
	"cquiz/internal/config"
	"cquiz/internal/database"
	"cquiz/internal/domain"
	"cquiz/internal/handler"
	"cquiz/internal/logger"
	"cquiz/internal/middleware"
	"cquiz/internal/notify"
	"cquiz/internal/progress"
	"cquiz/internal/repository"
	"cquiz/internal/service"
	"cquiz/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

// newStorage builds the progress storage backend selected in the config.
// The returned func releases its connections.
func newStorage(ctx context.Context, cfg *config.Config) (domain.Storage, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Get().Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		return adapter.NewRedisStorage(client, cfg.Redis.TTL), func() { _ = client.Close() }, nil
	case config.BackendOracle:
		db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLXProgressRepository(db), func() { _ = db.Close() }, nil
	case config.BackendMemory:
		logger.Get().Warn("Using in-memory storage, progress is lost on restart")
		return adapter.NewMemoryStorage(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

func loadBank(cfg *config.Config) (*bank.Bank, error) {
	if cfg.Bank.Path != "" {
		return bank.Load(cfg.Bank.Path)
	}
	return bank.Default()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	questionBank, err := loadBank(cfg)
	if err != nil {
		appLogger.Fatal("Failed to load question bank", zap.Error(err))
	}
	appLogger.Info("Question bank loaded",
		zap.Int("questions", questionBank.Size()),
		zap.Strings("topics", questionBank.Topics()))

	storage, closeStorage, err := newStorage(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer closeStorage()

	tracker := progress.NewTracker(storage, cache.ProgressKey(cfg.Progress.Key), progress.Policy{
		InitialMastery: cfg.Progress.InitialMastery,
		Retention:      cfg.Progress.Retention,
	}, cfg.Progress.PersistTimeout)
	tracker.SetTopicFilter(questionBank.HasTopic)
	tracker.Load(ctx)

	notifier := notify.Multi{notify.NewLogNotifier(appLogger)}
	if cfg.Logger.Env != "production" {
		notifier = append(notifier, notify.NewConsoleNotifier(os.Stdout))
	}

	engine := session.NewEngine(tracker, notifier, session.NewTickerScheduler(), cfg.Quiz.TimePerQuestion)
	defer engine.Close()

	quizService := service.NewQuizService(questionBank, engine, tracker, bank.AdaptivePolicy{
		QuestionCount:  cfg.Adaptive.QuestionCount,
		MinWeight:      cfg.Adaptive.MinWeight,
		InitialMastery: cfg.Progress.InitialMastery,
	})
	quizHandler := handler.NewQuizHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	quizHandler.RegisterRoutes(app.Group("/api"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		return app.Listen(":" + strconv.Itoa(cfg.Server.Port))
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Server stopped with error", zap.Error(err))
	}

	// Progress is saved after every answer; this catches anything left over.
	if err := tracker.Persist(context.Background()); err != nil {
		appLogger.Warn("Final progress save failed", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
