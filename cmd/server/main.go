package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"sprint-review.backend/internal/config"
	domainRepos "sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/internal/infrastructure/datasources"
	"sprint-review.backend/internal/infrastructure/jobs"
	"sprint-review.backend/internal/infrastructure/locks"
	"sprint-review.backend/internal/infrastructure/repositories"
	"sprint-review.backend/internal/interfaces/http/handlers"
	"sprint-review.backend/internal/interfaces/http/middleware"
	"sprint-review.backend/internal/usecases"
	"sprint-review.backend/pkg/jwt"
	"sprint-review.backend/pkg/logger"
	"sprint-review.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = datasources.NewConnection
	migrateDB  = datasources.Migrate
	runServer  = func(srv *http.Server) error { return srv.ListenAndServe() }
	getStdDB   = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
	shutdownCh = func() <-chan os.Signal {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		return quit
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	if cfg.Server.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.Server.LogLevel)
		if err != nil {
			logger.Warn(ctx, "Ignoring invalid LOG_LEVEL", zap.String("level", cfg.Server.LogLevel))
		} else {
			logger.SetLevel(level)
		}
	}
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		logger.Error(ctx, "Failed to connect to database", zap.Error(err))
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := getStdDB(db); err == nil {
		defer sqlDB.Close()
	}
	if err := migrateDB(db); err != nil {
		logger.Error(ctx, "Failed to migrate database", zap.Error(err))
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info(ctx, "Database connected")

	// Team locks and credential revocation live in Redis when it is
	// configured; otherwise locks are in-process and revocation is skipped.
	var (
		locker      domainRepos.TeamLocker
		revoker     domainRepos.CredentialRevoker
		revocations middleware.RevocationChecker
	)
	if cfg.Redis.URL != "" {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer redis.Close()
		credentials := redis.NewCredentialStore(cfg.JWT.AccessExpiry)
		locker = redis.NewKeyLock(cfg.Store.LockTTL)
		revoker = credentials
		revocations = credentials
		logger.Info(ctx, "Redis initialized")
	} else {
		locker = locks.NewLocalKeyLock()
		logger.Warn(ctx, "REDIS_URL not set, using in-process team locks without credential revocation")
	}

	limits := domainRepos.StoreLimits{
		MaxBatchOps: cfg.Store.MaxBatchOps,
		MaxInFilter: cfg.Store.MaxInFilter,
	}
	timeout := cfg.Store.OpTimeout

	// Repositories
	studentRepo := repositories.NewStudentRepository(db, limits)
	teamRepo := repositories.NewTeamRepository(db, limits)
	reviewRepo := repositories.NewReviewRepository(db, limits)
	userRepo := repositories.NewUserRepository(db)
	sprintRepo := repositories.NewSprintRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Services
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Usecases
	writer := usecases.NewBatchWriter(uow, studentRepo, teamRepo, reviewRepo, userRepo, limits, timeout)
	aggregator := usecases.NewReviewAggregator(reviewRepo, limits, timeout)
	membershipUsecase := usecases.NewMembershipUsecase(studentRepo, teamRepo, reviewRepo, userRepo, writer, locker, revoker, limits, timeout)
	queryUsecase := usecases.NewRosterQueryUsecase(teamRepo, studentRepo, aggregator, cfg.Engine.AggregationConcurrency, timeout)
	accountUsecase := usecases.NewAccountUsecase(studentRepo, userRepo, writer, locker, timeout)
	sprintUsecase := usecases.NewSprintUsecase(sprintRepo, studentRepo, teamRepo, reviewRepo, timeout)
	reviewUsecase := usecases.NewReviewUsecase(reviewRepo, studentRepo, sprintRepo, locker, timeout)

	// Handlers
	teamHandler := handlers.NewTeamHandler(membershipUsecase, queryUsecase)
	studentHandler := handlers.NewStudentHandler(membershipUsecase, queryUsecase, accountUsecase, sprintUsecase)
	reviewHandler := handlers.NewReviewHandler(reviewUsecase)
	sprintHandler := handlers.NewSprintHandler(sprintUsecase)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var reminderJob *jobs.ReviewReminderJob
	if cfg.Reminder.Enabled {
		reminderJob = jobs.NewReviewReminderJob(sprintRepo, teamRepo, aggregator, jobs.LogNotifier{}, cfg.Reminder.Interval)
		go reminderJob.Start(jobCtx)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		teamHandler:    teamHandler,
		studentHandler: studentHandler,
		reviewHandler:  reviewHandler,
		sprintHandler:  sprintHandler,
		authMiddleware: middleware.AuthMiddleware(jwtService, revocations),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := shutdownCh()
	go func() {
		if _, ok := <-quit; !ok {
			return
		}
		logger.Info(ctx, "Shutting down server")
		if reminderJob != nil {
			reminderJob.Stop()
		}
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "Sprint review backend starting", zap.String("port", cfg.Server.Port))
	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
