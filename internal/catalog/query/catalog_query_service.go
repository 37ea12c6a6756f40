package query

import (
	"context"
	"strings"

	"github.com/deweycatalog/catalog/shared/apperr"
	"github.com/deweycatalog/catalog/shared/cqrs"
	"github.com/deweycatalog/catalog/shared/dewey"
	"github.com/deweycatalog/catalog/shared/models"
)

// CatalogReader is the read model behind every catalog query. It is served
// either by Postgres or by the in-memory index.
type CatalogReader interface {
	ListByCodes(ctx context.Context, codes []dewey.Code) ([]models.Classification, error)
	ListClasses(ctx context.Context, rng dewey.ClassRange) ([]models.Classification, error)
	ListDirectChildren(ctx context.Context, parent dewey.Code) ([]models.ClassificationNode, error)
	ListDescendants(ctx context.Context, parent dewey.Code) ([]models.Classification, error)
	GetByCode(ctx context.Context, code dewey.Code) (*models.Classification, error)
	ListSiblings(ctx context.Context, base string) ([]models.Classification, error)
	Search(ctx context.Context, field dewey.SearchField, term string, limit int) ([]models.Classification, error)
	ListTables(ctx context.Context) ([]models.AuxTable, error)
	ListTableEntries(ctx context.Context, tableNo string) ([]models.AuxTableEntry, error)
}

// CatalogQueryService validates every input before it reaches the reader and
// turns empty results into not found errors.
type CatalogQueryService struct {
	reader      CatalogReader
	searchLimit int
}

func NewCatalogQueryService(reader CatalogReader, searchLimit int) *CatalogQueryService {
	return &CatalogQueryService{reader: reader, searchLimit: searchLimit}
}

// MainNumbers returns the stored centuries 000 to 900.
func (s *CatalogQueryService) MainNumbers(ctx context.Context) ([]models.Classification, error) {
	entries, err := s.reader.ListByCodes(ctx, dewey.Centuries())
	return nonEmpty(entries, err, "No main Dewey numbers found")
}

// Decades returns the tens below a century, e.g. 610..690 for 600.
func (s *CatalogQueryService) Decades(ctx context.Context, q cqrs.ChildrenQuery) ([]models.Classification, error) {
	century, err := dewey.ParseClass(q.Code)
	if err != nil {
		return nil, err
	}
	if !century.IsCentury() {
		return nil, apperr.Validation("Invalid century %q: must be a multiple of 100", q.Code)
	}
	entries, err := s.reader.ListClasses(ctx, dewey.DecadesOf(century))
	return nonEmpty(entries, err, "No subcategories found for %s", century)
}

// Units returns the classes from a decade to the next one, e.g. 620..629.
func (s *CatalogQueryService) Units(ctx context.Context, q cqrs.ChildrenQuery) ([]models.Classification, error) {
	decade, err := dewey.ParseClass(q.Code)
	if err != nil {
		return nil, err
	}
	entries, err := s.reader.ListClasses(ctx, dewey.UnitsOf(decade))
	return nonEmpty(entries, err, "No categories found for %s", decade)
}

// DecimalChildren returns the one decimal digit children of a class.
func (s *CatalogQueryService) DecimalChildren(ctx context.Context, q cqrs.ChildrenQuery) ([]models.ClassificationNode, error) {
	unit, err := dewey.ParseClass(q.Code)
	if err != nil {
		return nil, err
	}
	nodes, err := s.reader.ListDirectChildren(ctx, unit)
	return nonEmpty(nodes, err, "No subcategories found for %s", unit)
}

// DeeperChildren returns the children one digit below any code.
func (s *CatalogQueryService) DeeperChildren(ctx context.Context, q cqrs.ChildrenQuery) ([]models.ClassificationNode, error) {
	code, err := dewey.Parse(q.Code)
	if err != nil {
		return nil, err
	}
	nodes, err := s.reader.ListDirectChildren(ctx, code)
	return nonEmpty(nodes, err, "No subcategories found for %s", code)
}

// LeafChildren returns everything below a code regardless of depth.
func (s *CatalogQueryService) LeafChildren(ctx context.Context, q cqrs.ChildrenQuery) ([]models.Classification, error) {
	code, err := dewey.Parse(q.Code)
	if err != nil {
		return nil, err
	}
	entries, err := s.reader.ListDescendants(ctx, code)
	return nonEmpty(entries, err, "No subcategories found for %s", code)
}

func (s *CatalogQueryService) Details(ctx context.Context, q cqrs.DetailsQuery) (*models.Classification, error) {
	if strings.TrimSpace(q.Code) == "" {
		return nil, apperr.Validation("dewey_no is required")
	}
	code, err := dewey.Parse(q.Code)
	if err != nil {
		return nil, err
	}
	return s.reader.GetByCode(ctx, code)
}

// Related returns the siblings sharing a base number.
func (s *CatalogQueryService) Related(ctx context.Context, q cqrs.RelatedQuery) ([]models.Classification, error) {
	base, level := strings.TrimSpace(q.BaseNumber), q.Level
	if q.Code != "" {
		code, err := dewey.Parse(q.Code)
		if err != nil {
			return nil, err
		}
		base, level = dewey.SiblingBase(code)
	}
	if err := dewey.ValidateSiblingBase(base, level); err != nil {
		return nil, err
	}
	entries, err := s.reader.ListSiblings(ctx, base)
	return nonEmpty(entries, err, "No related categories found for %s", base)
}

func (s *CatalogQueryService) Search(ctx context.Context, q cqrs.SearchQuery) ([]models.Classification, error) {
	term := strings.TrimSpace(q.Term)
	if term == "" {
		return nil, apperr.Validation("Search query is required")
	}
	field, err := dewey.ParseSearchField(q.Field)
	if err != nil {
		return nil, err
	}
	entries, err := s.reader.Search(ctx, field, term, s.searchLimit)
	return nonEmpty(entries, err, "No results found for %q", term)
}

func (s *CatalogQueryService) Tables(ctx context.Context) ([]models.AuxTable, error) {
	tables, err := s.reader.ListTables(ctx)
	return nonEmpty(tables, err, "No auxiliary tables found")
}

// TableEntries lists one auxiliary table. "3" and "t3" both name T3.
func (s *CatalogQueryService) TableEntries(ctx context.Context, q cqrs.TableEntriesQuery) ([]models.AuxTableEntryView, error) {
	tableNo, err := dewey.NormalizeTableNo(q.TableNo)
	if err != nil {
		return nil, err
	}
	entries, err := s.reader.ListTableEntries(ctx, tableNo)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		if err := s.requireTable(ctx, tableNo); err != nil {
			return nil, err
		}
	}
	views := make([]models.AuxTableEntryView, len(entries))
	for i, e := range entries {
		views[i] = e.View()
	}
	return views, nil
}

// requireTable reports NotFound unless tableNo is a stored table.
func (s *CatalogQueryService) requireTable(ctx context.Context, tableNo string) error {
	tables, err := s.reader.ListTables(ctx)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t.TableNo == tableNo {
			return nil
		}
	}
	return apperr.NotFound("Auxiliary table %s not found", tableNo)
}

func nonEmpty[T any](items []T, err error, format string, args ...any) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.NotFound(format, args...)
	}
	return items, nil
}
