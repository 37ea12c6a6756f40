package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/deweycatalog/catalog/internal/catalog/repository"
	"github.com/deweycatalog/catalog/shared/apperr"
	"github.com/deweycatalog/catalog/shared/cqrs"
	"github.com/deweycatalog/catalog/shared/dewey"
	"github.com/deweycatalog/catalog/shared/events"
	"github.com/deweycatalog/catalog/shared/models"
	"github.com/sirupsen/logrus"
)

type CatalogWriter interface {
	Import(ctx context.Context, entries []models.Classification, tables []models.AuxTable, tableEntries []models.AuxTableEntry) (repository.ImportResult, error)
}

type EventPublisher interface {
	PublishCatalogImported(ctx context.Context, imported events.CatalogImportedEvent) error
}

// ViewInvalidator drops cached read models.
type ViewInvalidator interface {
	InvalidateViews(ctx context.Context) (int, error)
}

// IndexReloader rebuilds the in-memory index.
type IndexReloader interface {
	Reload(ctx context.Context) error
}

// CatalogCommandService writes catalog data and keeps the read side in sync.
// The import tool uses the writer and publisher; the catalog service uses the
// invalidator and reloader when it receives the resulting event. Any of them
// may be nil where unused.
type CatalogCommandService struct {
	writer    CatalogWriter
	publisher EventPublisher
	views     ViewInvalidator
	index     IndexReloader
	log       *logrus.Entry
}

func NewCatalogCommandService(
	writer CatalogWriter,
	publisher EventPublisher,
	views ViewInvalidator,
	index IndexReloader,
	log *logrus.Entry,
) *CatalogCommandService {
	return &CatalogCommandService{
		writer:    writer,
		publisher: publisher,
		views:     views,
		index:     index,
		log:       log,
	}
}

// Import validates and upserts a catalog document, then announces it.
func (s *CatalogCommandService) Import(ctx context.Context, cmd cqrs.ImportCatalogCommand) (*events.CatalogImportedEvent, error) {
	entries, tables, tableEntries, err := normalizeImport(cmd)
	if err != nil {
		return nil, err
	}

	res, err := s.writer.Import(ctx, entries, tables, tableEntries)
	if err != nil {
		return nil, apperr.Store("failed to import catalog", err)
	}

	imported := &events.CatalogImportedEvent{
		Source:       cmd.Source,
		Entries:      res.Entries,
		Tables:       res.Tables,
		TableEntries: res.TableEntries,
	}
	s.log.WithFields(logrus.Fields{
		"source":        cmd.Source,
		"entries":       res.Entries,
		"tables":        res.Tables,
		"table_entries": res.TableEntries,
	}).Info("Catalog imported")

	if s.publisher == nil {
		return imported, nil
	}
	if err := s.publisher.PublishCatalogImported(ctx, *imported); err != nil {
		return imported, fmt.Errorf("catalog imported but %s was not published: %w", events.CatalogImported, err)
	}
	return imported, nil
}

// HandleCatalogEvent reacts to catalog.imported by dropping cached views and
// rebuilding the in-memory index.
func (s *CatalogCommandService) HandleCatalogEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.CatalogImported {
		return nil
	}
	var data events.CatalogImportedEvent
	if err := events.DecodeData(event, &data); err != nil {
		return err
	}
	log := s.log.WithFields(logrus.Fields{"source": data.Source, "entries": data.Entries})

	if s.views != nil {
		dropped, err := s.views.InvalidateViews(ctx)
		if err != nil {
			return fmt.Errorf("failed to invalidate catalog views: %w", err)
		}
		log = log.WithField("dropped_views", dropped)
	}
	if s.index != nil {
		if err := s.index.Reload(ctx); err != nil {
			return fmt.Errorf("failed to reload catalog index: %w", err)
		}
	}
	log.Info("Catalog read side refreshed")
	return nil
}

func normalizeImport(cmd cqrs.ImportCatalogCommand) ([]models.Classification, []models.AuxTable, []models.AuxTableEntry, error) {
	if len(cmd.Entries) == 0 && len(cmd.Tables) == 0 && len(cmd.TableEntries) == 0 {
		return nil, nil, nil, apperr.Validation("Import document is empty")
	}

	entries := make([]models.Classification, len(cmd.Entries))
	for i, e := range cmd.Entries {
		code, err := dewey.Parse(e.Code)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		e.Code = code.String()
		e.Title = strings.TrimSpace(e.Title)
		if e.Title == "" {
			return nil, nil, nil, apperr.Validation("entry %d (%s): title is required", i+1, e.Code)
		}
		entries[i] = e
	}

	tables := make([]models.AuxTable, len(cmd.Tables))
	known := make(map[string]bool, len(cmd.Tables))
	for i, t := range cmd.Tables {
		no, err := dewey.NormalizeTableNo(t.TableNo)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("table %d: %w", i+1, err)
		}
		t.TableNo = no
		known[no] = true
		tables[i] = t
	}

	tableEntries := make([]models.AuxTableEntry, len(cmd.TableEntries))
	for i, e := range cmd.TableEntries {
		no, err := dewey.NormalizeTableNo(e.TableNo)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("table entry %d: %w", i+1, err)
		}
		if !known[no] {
			return nil, nil, nil, apperr.Validation("table entry %d: table %s is not part of the import", i+1, no)
		}
		if e.Segments[0] == "" {
			return nil, nil, nil, apperr.Validation("table entry %d: notation is empty", i+1)
		}
		e.TableNo = no
		tableEntries[i] = e
	}
	return entries, tables, tableEntries, nil
}
