package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"friender-bender/internal/config"
	"friender-bender/internal/db"
	apihttp "friender-bender/internal/http"
	applogger "friender-bender/internal/logger"
	"friender-bender/internal/repository"
	"friender-bender/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := applogger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.AutoMigrate {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)
	quizRepo := repository.NewPgQuizRepository(pool)

	var display repository.DisplayMetadataLookup = repository.NewBatchedDisplayLookup(profileRepo, 0, 0)
	var (
		limiter      service.SubmissionRateLimiter
		displayCache *repository.CachedDisplayLookup
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, cfg.QuizSubmitWindow, cfg.QuizSubmitMax)
			displayCache = repository.NewCachedDisplayLookup(redisClient, display, cfg.DisplayCacheTTL, logger)
			display = displayCache
		}
		cancel()
	}
	if limiter == nil {
		limiter = service.NewMemoryRateLimiter(cfg.QuizSubmitWindow, cfg.QuizSubmitMax)
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	matchSvc := service.NewMatchService(logger, quizRepo, display, cfg.MatchFanoutLimit)
	quizSvc := service.NewQuizService(logger, quizRepo, profileRepo, limiter)

	var invalidator apihttp.DisplayCacheInvalidator
	if displayCache != nil {
		invalidator = displayCache
	}
	router := apihttp.NewRouter(
		logger,
		pool,
		jwtSvc,
		apihttp.NewQuizHandler(logger, quizSvc),
		apihttp.NewMatchHandler(logger, matchSvc),
		apihttp.NewProfileHandler(logger, userRepo, profileRepo, invalidator),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
