package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"classgateway/internal/cache"
	"classgateway/internal/config"
	"classgateway/internal/events"
	"classgateway/internal/handler"
	"classgateway/internal/logging"
	"classgateway/internal/middleware"
	"classgateway/internal/service"
	"classgateway/internal/storage"
	"classgateway/internal/upstream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	logger := logging.New(zapLogger)

	cfg, err := config.New()
	if err != nil {
		logger.Fatal(ctx, "cannot create config", zap.Error(err))
	}

	classroomClient := upstream.New(cfg)

	store, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "cannot create storage client", zap.Error(err))
	}

	redisConn := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})

	redisCache := cache.NewRedisCache(redisConn)

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
	}

	courseService := service.NewCourseService(classroomClient, cfg.AnnouncementLimit)

	var eventSink service.Events
	if producer != nil {
		eventSink = producer
	}
	submissionService := service.NewSubmissionService(classroomClient, store, eventSink, cfg.CleanupOrphanedUploads)

	courseHandler := handler.NewCourseHandler(courseService)
	dashboardHandler := handler.NewDashboardHandler(courseService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)

	authMiddleware := middleware.NewAuthMiddleware(classroomClient, redisCache, cfg.AuthCacheTTL)
	r := chi.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, 10<<20) // 10 MB
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		courseHandler.RegisterRoutes(r, authMiddleware)
		dashboardHandler.RegisterRoutes(r, authMiddleware)
		submissionHandler.RegisterRoutes(r, authMiddleware)
	})

	port := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info(ctx, "Starting server", zap.String("port", port))

	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "cannot start http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info(ctx, "Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal(ctx, "server forced to shutdown", zap.Error(err))
	}
	logger.Info(ctx, "Server stopped")
}
