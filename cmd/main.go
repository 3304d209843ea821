package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	handlers "github.com/fintrack/user-auth-service/internal/adapter/handler/http"
	"github.com/fintrack/user-auth-service/internal/adapter/logger"
	"github.com/fintrack/user-auth-service/internal/adapter/memory"
	"github.com/fintrack/user-auth-service/internal/adapter/postgres"
	"github.com/fintrack/user-auth-service/internal/adapter/prometheus"
	"github.com/fintrack/user-auth-service/internal/adapter/redisstore"
	"github.com/fintrack/user-auth-service/internal/adapter/sqlite"
	"github.com/fintrack/user-auth-service/internal/adapter/token"
	"github.com/fintrack/user-auth-service/internal/config"
	"github.com/fintrack/user-auth-service/internal/core/ports"
	"github.com/fintrack/user-auth-service/internal/core/services"

	"github.com/go-playground/validator/v10"
	_ "github.com/lib/pq"
	"github.com/pressly/goose"
	redisClient "github.com/redis/go-redis/v9"
)

func main() {
	// Loading environment
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app":     cfg.App.Name,
		"env":     cfg.App.Env,
		"backend": cfg.Store.Backend,
	})

	ctx := context.Background()

	// Select and prepare the store backend
	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		log.Fatalf("Failed to init store: %v", err)
	}

	// Validate
	validate := validator.New()

	// Observability
	metrics := prometheus.NewPrometheusAdapter()

	// Services
	tokenService := token.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Duration, loggerAdapter)
	authService := services.NewAuthService(store, tokenService, loggerAdapter, validate)
	profileService := services.NewProfileService(store, loggerAdapter, validate)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, loggerAdapter, metrics)
	profileHandler := handlers.NewProfileHandler(profileService, loggerAdapter, metrics)

	// Init router
	router, err := handlers.NewRouter(
		cfg.HTTP,
		authService,
		authHandler,
		profileHandler,
	)
	if err != nil {
		log.Fatal("Error initializing router:", err)
	}

	go func() {
		listenAddr := fmt.Sprintf("%s:%s", cfg.HTTP.URL, cfg.HTTP.Port)
		loggerAdapter.Info("Starting the HTTP server", map[string]interface{}{
			"addr": listenAddr,
		})

		if err := router.Serve(listenAddr); err != nil {
			log.Fatal("Error starting the HTTP server:", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	loggerAdapter.Info("Application is running", nil)

	<-stop

	loggerAdapter.Info("Application stopped", nil)
}

func newStore(ctx context.Context, cfg *config.Container) (ports.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return sqlite.New(cfg.Store.SQLitePath)

	case "memory":
		return memory.New(), nil

	case "redis":
		client := redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		return redisstore.New(client), nil

	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name)
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if err := goose.Up(db, "./internal/adapter/postgres/migrations"); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return postgres.New(db), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
