package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/deweycatalog/catalog/internal/gateway"
	"github.com/deweycatalog/catalog/internal/platform"
	"github.com/deweycatalog/catalog/shared/config"
	"github.com/deweycatalog/catalog/shared/logging"
	"github.com/deweycatalog/catalog/shared/metrics"
	"github.com/sirupsen/logrus"
)

const serviceName = "api-gateway"

func main() {
	cfg, err := config.Load("8080")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The gateway faces clients directly, so it trusts no forwarding headers.
	router, err := platform.NewRouter(serviceName, log, metrics.New(serviceName), nil)
	if err != nil {
		log.Fatal(err)
	}
	proxy := gateway.NewProxy(cfg.Gateway.Timeout, log)
	gateway.RegisterRoutes(router, proxy, cfg.Gateway.AuthServiceURL, cfg.Gateway.CatalogServiceURL)

	log.WithFields(logrus.Fields{
		"auth":    cfg.Gateway.AuthServiceURL,
		"catalog": cfg.Gateway.CatalogServiceURL,
	}).Info("Proxying upstream services")
	if err := platform.Serve(ctx, ":"+cfg.Port, router, log); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
