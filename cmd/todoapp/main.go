package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aryansemwal011/web-dev-project/internal/config"
	"github.com/Aryansemwal011/web-dev-project/internal/export"
	handlers "github.com/Aryansemwal011/web-dev-project/internal/http"
	"github.com/Aryansemwal011/web-dev-project/internal/logger"
	"github.com/Aryansemwal011/web-dev-project/internal/middleware"
	"github.com/Aryansemwal011/web-dev-project/internal/repository"
	"github.com/Aryansemwal011/web-dev-project/internal/service"
	"github.com/Aryansemwal011/web-dev-project/internal/session"
)

func main() {
	log := logger.Init("todoapp")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	// Инициализация репозитория
	var repo repository.Repository
	switch cfg.DB.Driver {
	case "postgres":
		repo, err = repository.NewPostgresRepository(cfg.DB.DSN())
	case "sqlite3", "mysql":
		repo, err = repository.NewSQLRepository(cfg.DB.Driver, cfg.DB.DSN())
	default:
		log.Fatal("unsupported database driver: " + cfg.DB.Driver)
	}
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer repo.Close()

	// Инициализация сервисов
	userService := service.NewUserService(repo)
	taskService := service.NewTaskService(repo)
	exporter := export.NewExporter(repo)
	sessions := session.NewManager(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)

	// Инициализация хендлера
	handler, err := handlers.NewHandler(userService, taskService, exporter, sessions, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create handler")
	}

	// Цепочка middleware (порядок важен!)
	var h http.Handler = handler.Routes()
	h = middleware.CSRFMiddleware(h)            // 4. CSRF защита
	h = middleware.SecurityHeadersMiddleware(h) // 3. заголовки безопасности
	h = middleware.MetricsMiddleware(h)         // 2. метрики
	h = middleware.LoggingMiddleware(log)(h)    // 1. логирование
	h = middleware.RequestIDMiddleware(h)       // 0. request-id

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: h,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("todoapp server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
}
