package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shenikar/sos_shield/internal/config"
	"github.com/shenikar/sos_shield/internal/delivery"
	v1 "github.com/shenikar/sos_shield/internal/handler/http/v1"
	"github.com/shenikar/sos_shield/internal/push"
	"github.com/shenikar/sos_shield/internal/repository"
	"github.com/shenikar/sos_shield/internal/service"
	"github.com/shenikar/sos_shield/pkg/logger"
	"github.com/shenikar/sos_shield/pkg/metrics"
	"github.com/shenikar/sos_shield/pkg/postgres"
	redisclient "github.com/shenikar/sos_shield/pkg/redis"
	"github.com/shenikar/sos_shield/pkg/scheduler"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/sos_shield/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title SOS Shield API
// @version 1.0
// @description Emergency contact selection, SOS dispatch over Expo push and the incoming alert inbox.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey SessionAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(dbpool, redisClient, cfg.DirectoryCacheTTL)
	contactRepo := repository.NewContactRepository(dbpool)
	eventRepo := repository.NewEventRepository(dbpool)
	sessionStore := repository.NewSessionStore(redisClient, cfg.SessionTTL)
	inboxNotifier := repository.NewRedisInboxNotifier(redisClient, log)

	// Очередь доставки и воркер повторов
	taskQueue := delivery.NewRedisTaskQueue(redisClient)
	deliveryWorker := delivery.NewWorker(taskQueue, eventRepo, inboxNotifier, log, cfg)
	deliveryWorker.Start(ctx)

	// Периодическая выгрузка длины очереди в метрики
	cron := scheduler.NewCron(time.UTC, log)
	if _, err := cron.Add(cfg.QueueGaugeCron, delivery.NewQueueGaugeJob(taskQueue, log)); err != nil {
		log.Fatalf("Invalid QUEUE_GAUGE_CRON %q: %v", cfg.QueueGaugeCron, err)
	}
	cron.Start()
	defer cron.Stop()

	// Клиент Expo push
	pushClient := push.NewExpoClient(cfg.ExpoPushURL, cfg.ExpoAccessToken, cfg.PushTimeout, log)

	// Инициализация сервисов
	userService := service.NewUserService(userRepo, sessionStore, log)
	contactService := service.NewContactService(userRepo, contactRepo, log)
	alertService := service.NewAlertService(userRepo, contactRepo, eventRepo, inboxNotifier, pushClient, taskQueue, log, cfg)
	inboxService := service.NewInboxService(eventRepo, inboxNotifier, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(userService, contactService, alertService, inboxService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	router.Use(metrics.Middleware())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Метрики Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
		// websocket подписки завершаются вместе с ctx
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	// Останавливаем воркер и подписки
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
