package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutor-scheduling-api/api/swagger"
	"github.com/noah-isme/tutor-scheduling-api/internal/handler"
	"github.com/noah-isme/tutor-scheduling-api/internal/middleware"
	"github.com/noah-isme/tutor-scheduling-api/internal/repository"
	"github.com/noah-isme/tutor-scheduling-api/internal/service"
	"github.com/noah-isme/tutor-scheduling-api/pkg/cache"
	"github.com/noah-isme/tutor-scheduling-api/pkg/config"
	"github.com/noah-isme/tutor-scheduling-api/pkg/database"
	"github.com/noah-isme/tutor-scheduling-api/pkg/jobs"
	"github.com/noah-isme/tutor-scheduling-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutor-scheduling-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutor-scheduling-api/pkg/middleware/requestid"
)

// @title Tutor Scheduling API
// @version 1.0.0
// @description Appointment scheduling for tutors and students
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := map[string]handler.Pinger{}

	var (
		redisClient *redis.Client
		db          *sqlx.DB
	)
	if cfg.Events.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, events will not be published", zap.Error(err))
		} else {
			redisClient = client
			defer redisClient.Close() //nolint:errcheck
			deps["redis"] = handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
		}
	}
	if cfg.Audit.Enabled {
		conn, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect audit database", zap.Error(err))
		}
		db = conn
		defer db.Close() //nolint:errcheck
		deps["postgres"] = handler.PingFunc(db.PingContext)
	}

	var auditRepo *repository.AuditRepository
	if db != nil {
		auditRepo = repository.NewAuditRepository(db)
	}

	var queue *jobs.Queue
	var dispatcher *service.EventDispatcher
	if cfg.Events.Enabled || cfg.Audit.Enabled {
		publisher := repository.NewEventPublisher(redisClient, cfg.Events.RedisChannel)
		if auditRepo != nil {
			dispatcher = service.NewEventDispatcher(auditRepo, publisher, logr)
		} else {
			dispatcher = service.NewEventDispatcher(nil, publisher, logr)
		}
		queue = jobs.NewQueue("appointment-events", dispatcher.Handle, jobs.QueueConfig{
			Workers:    cfg.Events.Workers,
			BufferSize: cfg.Events.BufferSize,
			MaxRetries: cfg.Events.MaxRetries,
			RetryDelay: cfg.Events.RetryDelay,
			Logger:     logr,
		})
		dispatcher.Attach(queue)
		queue.Start(ctx)
		defer queue.Stop()
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		var stats func() jobs.Stats
		if queue != nil {
			stats = queue.Stats
		}
		metricsSvc = service.NewMetricsService(stats)
	}

	opts := []service.AppointmentOption{service.WithMetrics(metricsSvc)}
	if dispatcher != nil {
		opts = append(opts, service.WithEvents(dispatcher))
	}
	appointmentSvc := service.NewAppointmentService(repository.NewAppointmentStore(), logr.Named("scheduling"), opts...)

	if cfg.Scheduling.SeedDemoData {
		created, err := appointmentSvc.SeedDemoData(ctx)
		if err != nil {
			logr.Fatal("failed to seed demo data", zap.Error(err))
		}
		logr.Info("demo data seeded", zap.Int("appointments", created))
	}

	authSvc := service.NewAuthService(logr, service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	exportSvc := service.NewExportService(appointmentSvc, logr)
	validate := validator.New()

	auditHandler := handler.NewAuditHandler(nil)
	if auditRepo != nil {
		auditHandler = handler.NewAuditHandler(service.NewAuditTrailService(auditRepo, appointmentSvc, logr))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(middleware.Metrics(metricsSvc))
	}

	metricsHandler := handler.NewMetricsHandler(metricsSvc, deps)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterAppointmentRoutes(r.Group(cfg.APIPrefix),
		handler.NewAppointmentHandler(appointmentSvc, validate),
		handler.NewExportHandler(exportSvc, validate, cfg.Exports.Enabled),
		auditHandler,
		handler.RouteAuth{Required: middleware.JWT(authSvc), Optional: middleware.OptionalJWT(authSvc)},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
