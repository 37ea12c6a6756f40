package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	authcmd "github.com/deweycatalog/catalog/internal/auth/command"
	"github.com/deweycatalog/catalog/internal/auth/handler"
	authqry "github.com/deweycatalog/catalog/internal/auth/query"
	"github.com/deweycatalog/catalog/internal/auth/repository"
	"github.com/deweycatalog/catalog/internal/migrations"
	"github.com/deweycatalog/catalog/internal/platform"
	"github.com/deweycatalog/catalog/shared/config"
	"github.com/deweycatalog/catalog/shared/logging"
	"github.com/deweycatalog/catalog/shared/metrics"
	"github.com/deweycatalog/catalog/shared/middleware"
	"github.com/deweycatalog/catalog/shared/token"
	"github.com/sirupsen/logrus"
)

const serviceName = "auth-service"

func main() {
	cfg, err := config.Load("8081")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(serviceName, cfg.LogLevel)
	if err := cfg.RequireJWTSecret(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := platform.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// --- CQRS wiring ---
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userRepo := repository.NewUserRepository(db)
	commandSvc := authcmd.NewAuthCommandService(userRepo, tokens)
	querySvc := authqry.NewAuthQueryService(userRepo, tokens)
	authHandler := handler.NewAuthHandler(commandSvc, querySvc)

	limiter := middleware.NewRateLimiter(cfg.Auth.RatePerSecond, cfg.Auth.Burst)
	go limiter.Run(ctx, time.Minute, 10*time.Minute)

	router, err := platform.NewRouter(serviceName, log, metrics.New(serviceName), cfg.Gateway.TrustedProxies)
	if err != nil {
		log.Fatal(err)
	}
	api := router.Group("/api")
	{
		api.POST("/register", limiter.Handler(), authHandler.Register)
		api.POST("/login", limiter.Handler(), authHandler.Login)
		api.POST("/refresh", authHandler.RefreshToken)
	}

	if err := platform.Serve(ctx, ":"+cfg.Port, router, log); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
