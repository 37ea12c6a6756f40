// Command catalog-import loads a JSON catalog document into Postgres and
// announces the change to running catalog services.
//
//	catalog-import -file ddc.json
//
// The document has the shape {"entries": [...], "tables": [...],
// "tableEntries": [...]}.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	catalogcmd "github.com/deweycatalog/catalog/internal/catalog/command"
	"github.com/deweycatalog/catalog/internal/catalog/repository"
	"github.com/deweycatalog/catalog/internal/migrations"
	"github.com/deweycatalog/catalog/internal/platform"
	"github.com/deweycatalog/catalog/shared/config"
	"github.com/deweycatalog/catalog/shared/cqrs"
	"github.com/deweycatalog/catalog/shared/events"
	"github.com/deweycatalog/catalog/shared/logging"
	"github.com/deweycatalog/catalog/shared/models"
	redisClient "github.com/deweycatalog/catalog/shared/redis"
	"github.com/sirupsen/logrus"
)

const serviceName = "catalog-import"

type document struct {
	Entries      []models.Classification `json:"entries"`
	Tables       []models.AuxTable       `json:"tables"`
	TableEntries []models.AuxTableEntry  `json:"tableEntries"`
}

func main() {
	file := flag.String("file", "", "path to the JSON catalog document")
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: catalog-import -file <catalog.json>")
		os.Exit(2)
	}

	cfg, err := config.Load("0")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	doc, err := readDocument(*file)
	if err != nil {
		log.Fatal(err)
	}

	db, err := platform.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	var publisher catalogcmd.EventPublisher
	if cfg.Redis.Addr != "" {
		redis, err := redisClient.NewClient(ctx, cfg.Redis, serviceName)
		if err != nil {
			log.Fatal(err)
		}
		defer redis.Close()
		publisher = events.NewPublisher(redis.Client)
	} else {
		log.Warn("REDIS_ADDR is empty, running services will not be notified")
	}

	commandSvc := catalogcmd.NewCatalogCommandService(repository.NewClassificationWriteRepository(db), publisher, nil, nil, log)
	res, err := commandSvc.Import(ctx, cqrs.ImportCatalogCommand{
		Entries:      doc.Entries,
		Tables:       doc.Tables,
		TableEntries: doc.TableEntries,
		Source:       filepath.Base(*file),
	})
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.WithFields(logrus.Fields{
		"entries":       res.Entries,
		"tables":        res.Tables,
		"table_entries": res.TableEntries,
	}).Info("Import complete")
}

func readDocument(path string) (*document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var doc document
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &doc, nil
}
