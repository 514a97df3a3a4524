package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-auth-api/internal/config"
	"github.com/go-auth-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-auth-api/internal/infrastructure/jwt"
	"github.com/go-auth-api/internal/infrastructure/redisstore"
	"github.com/go-auth-api/internal/infrastructure/smtp"
	"github.com/go-auth-api/internal/logging"
	"github.com/go-auth-api/internal/metrics"
	transporthttp "github.com/go-auth-api/internal/transport/http"
	"github.com/go-auth-api/internal/transport/http/handler"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	errorLog, closeErrorLog, err := logging.NewErrorLogger(cfg.ErrorLogFile, os.Stdout)
	if err != nil {
		logger.Error("open error log", "error", err)
		os.Exit(1)
	}
	defer closeErrorLog()

	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		logger.Error("dynamo client", "error", err)
		os.Exit(1)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
	if err := dynamo.Ping(ctx, dynamoClient, cfg.DynamoTables); err != nil {
		logger.Error("dynamo unreachable", "error", err)
		os.Exit(1)
	}

	checks := map[string]handler.Pinger{
		"dynamo": func(ctx context.Context) error { return dynamo.Ping(ctx, dynamoClient, cfg.DynamoTables) },
	}

	var codes transporthttp.CodeStore
	switch cfg.CodeStore {
	case config.CodeStoreRedis:
		redisClient := redisstore.NewClient(cfg)
		defer redisClient.Close()
		store := redisstore.NewCodeStore(redisClient)
		if err := store.Ping(ctx); err != nil {
			logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		codes = store
		checks["redis"] = store.Ping
	default:
		codes = dynamo.NewCodeRepo(dynamoClient, cfg.DynamoTables.EphemeralCodes)
	}

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		logger.Error("jwt provider", "error", err)
		os.Exit(1)
	}

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users, cfg.DynamoTables.UserEmails),
		RefreshTokenRepo: dynamo.NewRefreshTokenRepo(dynamoClient, cfg.DynamoTables.RefreshTokens),
		CodeStore:        codes,
		Mailer:           smtp.NewMailer(cfg),
		JWTProvider:      jwtProvider,
		Metrics:          metrics.New(),
		Logger:           logger,
		ErrorLogger:      errorLog,
		HealthChecks:     checks,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(errorLog.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "code_store", cfg.CodeStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		return
	}
	logger.Info("server stopped")
}
