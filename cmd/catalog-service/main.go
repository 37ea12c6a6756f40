package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	catalogcmd "github.com/deweycatalog/catalog/internal/catalog/command"
	"github.com/deweycatalog/catalog/internal/catalog/handler"
	"github.com/deweycatalog/catalog/internal/catalog/hierarchy"
	catalogqry "github.com/deweycatalog/catalog/internal/catalog/query"
	"github.com/deweycatalog/catalog/internal/catalog/repository"
	"github.com/deweycatalog/catalog/internal/migrations"
	"github.com/deweycatalog/catalog/internal/platform"
	"github.com/deweycatalog/catalog/shared/config"
	"github.com/deweycatalog/catalog/shared/events"
	"github.com/deweycatalog/catalog/shared/logging"
	"github.com/deweycatalog/catalog/shared/metrics"
	"github.com/deweycatalog/catalog/shared/middleware"
	"github.com/deweycatalog/catalog/shared/models"
	redisClient "github.com/deweycatalog/catalog/shared/redis"
	"github.com/deweycatalog/catalog/shared/token"
	"github.com/sirupsen/logrus"
)

const serviceName = "catalog-service"

func main() {
	cfg, err := config.Load("8082")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(serviceName, cfg.LogLevel)
	if cfg.Auth.RequireToken {
		if err := cfg.RequireJWTSecret(); err != nil {
			log.Fatal(err)
		}
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

	m := metrics.New(serviceName)

	// Redis is optional: it backs the read model cache and the catalog event
	// stream.
	var redis *redisClient.Client
	if cfg.Redis.Addr != "" {
		redis, err = redisClient.NewClient(ctx, cfg.Redis, serviceName)
		if err != nil {
			log.Fatal(err)
		}
		defer redis.Close()
	}

	// --- CQRS wiring ---
	var (
		lists *redisClient.ViewCache[[]models.Classification]
		nodes *redisClient.ViewCache[[]models.ClassificationNode]
	)
	if redis != nil && cfg.Catalog.Mode == config.ModeSQL {
		lists = redisClient.NewViewCache[[]models.Classification](redis.Client, cfg.Redis.CacheTTL, log)
		nodes = redisClient.NewViewCache[[]models.ClassificationNode](redis.Client, cfg.Redis.CacheTTL, log)
	}
	readRepo := repository.NewClassificationReadRepository(db, lists, nodes, m)
	catalogRepo := repository.NewCatalogRepository(db, readRepo)

	var (
		reader  catalogqry.CatalogReader = catalogRepo
		views   catalogcmd.ViewInvalidator
		reindex catalogcmd.IndexReloader
	)
	switch cfg.Catalog.Mode {
	case config.ModeMemory:
		live, err := hierarchy.NewLive(ctx, catalogRepo)
		if err != nil {
			log.Fatalf("Failed to build catalog index: %v", err)
		}
		log.WithField("entries", live.Index().Len()).Info("Catalog index built")
		reader, reindex = live, live
	default:
		if lists != nil {
			views = readRepo
		}
	}

	commandSvc := catalogcmd.NewCatalogCommandService(nil, nil, views, reindex, log)
	querySvc := catalogqry.NewCatalogQueryService(reader, cfg.Catalog.SearchLimit)
	catalogHandler := handler.NewCatalogHandler(querySvc)

	router, err := platform.NewRouter(serviceName, log, m, cfg.Gateway.TrustedProxies)
	if err != nil {
		log.Fatal(err)
	}
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	api := router.Group("/api", middleware.AuthMiddleware(tokens, cfg.Auth.RequireToken))
	catalogHandler.RegisterRoutes(api)

	if redis != nil {
		go runSubscriber(ctx, redis, commandSvc, log)
	}

	if err := platform.Serve(ctx, ":"+cfg.Port, router, log); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runSubscriber consumes catalog events. Every instance joins its own group
// so that each one refreshes its own read side.
func runSubscriber(ctx context.Context, redis *redisClient.Client, commandSvc *catalogcmd.CatalogCommandService, log *logrus.Entry) {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
		Group:    serviceName + "-" + host,
		Consumer: host,
		Stream:   events.CatalogEventsStream,
		Handler:  commandSvc.HandleCatalogEvent,
		Logger:   log,
	})
	if err := subscriber.Start(ctx); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("Subscriber stopped")
	}
}
