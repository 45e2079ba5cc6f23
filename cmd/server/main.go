package main

import (
	"context"
	"ctchen222/Todo-List/internal/api/controller"
	"ctchen222/Todo-List/internal/api/repository"
	"ctchen222/Todo-List/internal/api/service"
	"ctchen222/Todo-List/internal/config"
	"ctchen222/Todo-List/internal/db"
	"ctchen222/Todo-List/internal/events"
	"ctchen222/Todo-List/internal/logger"
	"ctchen222/Todo-List/internal/server"
	"ctchen222/Todo-List/internal/session"
	"ctchen222/Todo-List/internal/telemetry"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.OtelEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	// Initialize SQLite DB
	DB, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to initialize sqlite db: %v", err)
	}
	defer DB.Close()

	// Sessions and events live in Redis when it is configured, otherwise in process.
	var (
		sessionBackend session.Backend = session.NewMemoryBackend()
		publisher      events.Publisher = events.NopPublisher{}
	)
	if cfg.RedisAddr != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("failed to initialize redis: %v", err)
		}
		defer rdb.Close()
		sessionBackend = session.NewRedisBackend(rdb)
		publisher = events.NewRedisPublisher(rdb)
	} else {
		slog.Warn("REDIS_CONNSTRING not set, sessions are kept in memory")
	}
	sessions := session.NewManager([]byte(cfg.SessionSecret), cfg.SessionTTL, sessionBackend)

	// Create repositories
	userRepo := repository.NewUserRepository(DB)
	taskRepo := repository.NewTaskRepository(DB)

	// Create services
	userService := service.NewUserService(userRepo, sessions, service.NewBcryptHasher(cfg.BcryptCost))
	taskService := service.NewTaskService(taskRepo, service.WithPublisher(publisher))

	// Create controllers
	cookies := session.CookieOptions{Secure: cfg.CookieSecure, MaxAge: cfg.SessionTTL}
	userController := controller.NewUserController(userService, cookies)
	taskController := controller.NewTaskController(taskService, cookies)

	// Create the Gin-based server
	srv, err := server.NewServer(DB, userService, cookies, userController, taskController)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(srv.Engine(), "todo-list"),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       time.Minute,
	}

	go func() {
		slog.Info("http server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}
