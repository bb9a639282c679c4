// Package app wires repositories, services and transports from a Config.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/config"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/file"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/report"
	appHTTP "github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/messaging/kafka"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/wfh-attendance-go/internal/repository/redis"
	attendanceService "github.com/cmlabs-hris/wfh-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/wfh-attendance-go/internal/service/auth"
	fileService "github.com/cmlabs-hris/wfh-attendance-go/internal/service/file"
	outboxService "github.com/cmlabs-hris/wfh-attendance-go/internal/service/outbox"
	reportService "github.com/cmlabs-hris/wfh-attendance-go/internal/service/report"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	Clock  clock.Clock

	DB          *database.DB
	Redis       *redis.Client
	KafkaWriter *kafkago.Writer

	AuthService       auth.AuthService
	AttendanceService attendance.AttendanceService
	ReportService     report.ReportService
	FileService       file.FileService

	Scheduler *cron.Scheduler
	Router    http.Handler
}

// New connects to postgres (and redis when configured) and builds every
// service. Nothing is started; call Scheduler.Start and serve Router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
		Clock:  clock.New(),
	}

	poolOpts := database.DefaultPoolOptions()
	poolOpts.MaxRetries = cfg.Database.MaxRetries
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), poolOpts)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.DB = db

	if cfg.Redis.Enabled() {
		rdb, err := cache.ConnectRedisWithRetry(ctx, cache.RedisOptions{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			MaxRetries: 3,
			Backoff:    time.Second,
		})
		if err != nil {
			// Redis only backs caching and idempotency; run without it.
			slog.WarnContext(ctx, "redis unavailable, continuing without cache", "error", err)
		} else {
			a.Redis = rdb
		}
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.FileBaseURL+"/files")
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("initialize local storage: %w", err)
		}
	default:
		a.Close()
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	// Repositories
	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := redisRepo.NewCachedEmployeeRepository(postgresql.NewEmployeeRepository(db), a.Redis, cfg.Redis.CacheTTL)
	blacklistRepo := postgresql.NewTokenBlacklistRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	fileRepo := postgresql.NewFileRepository(db)
	outboxRepo := postgresql.NewOutboxRepository(db)

	// Services
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, a.Clock)
	a.AuthService = serviceAuth.NewAuthService(userRepo, employeeRepo, blacklistRepo, JWTService, a.Clock)
	a.FileService = fileService.NewFileService(fileRepo, fileStorage, cfg.Storage.MaxUploadSize)
	a.AttendanceService = attendanceService.NewAttendanceService(transactor, attendanceRepo, outboxRepo, a.Clock, cfg.Kafka.Topic)
	a.ReportService = reportService.NewReportService(reportRepo, employeeRepo, a.Clock)

	// Background jobs
	a.Scheduler = cron.NewScheduler(a.Clock)
	cron.RegisterTokenPurge(a.Scheduler, a.AuthService)
	if cfg.Kafka.Enabled() {
		a.KafkaWriter = kafka.NewWriter(cfg.Kafka.Brokers)
		relay := outboxService.NewRelay(outboxRepo, kafka.NewPublisher(a.KafkaWriter), a.Clock)
		cron.RegisterOutboxRelay(a.Scheduler, relay, cfg.Kafka.RelayInterval)
	}

	// HTTP
	a.Router = appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:          logger,
		AllowedOrigins:  cfg.App.AllowedOrigins,
		LoginPerMinute:  cfg.RateLimit.LoginPerMinute,
		SubmitPerMinute: cfg.RateLimit.SubmitPerMinute,
		Redis:           a.Redis,
	}, JWTService, a.AuthService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(a.AuthService),
		Attendance: appHTTP.NewAttendanceHandler(a.AttendanceService, a.FileService, cfg.Storage.MaxUploadSize),
		Report:     appHTTP.NewReportHandler(a.ReportService),
		File:       appHTTP.NewFileHandler(fileStorage),
	})

	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	if a.KafkaWriter != nil {
		if err := a.KafkaWriter.Close(); err != nil {
			slog.Error("failed to close kafka writer", "error", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Error("failed to close redis", "error", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
