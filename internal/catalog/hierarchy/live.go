package hierarchy

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/deweycatalog/catalog/shared/dewey"
	"github.com/deweycatalog/catalog/shared/models"
)

// Source loads everything an Index is built from.
type Source interface {
	ListAll(ctx context.Context) ([]models.Classification, error)
	ListTables(ctx context.Context) ([]models.AuxTable, error)
	ListAllEntries(ctx context.Context) ([]models.AuxTableEntry, error)
}

// Live serves reads from the current Index. Reload builds a replacement and
// swaps it in; readers already holding the previous index finish on it.
type Live struct {
	source  Source
	current atomic.Pointer[Index]
}

// NewLive builds the first index from source.
func NewLive(ctx context.Context, source Source) (*Live, error) {
	l := &Live{source: source}
	if err := l.Reload(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload rebuilds the index. On failure the current index is kept.
func (l *Live) Reload(ctx context.Context) error {
	entries, err := l.source.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load classifications: %w", err)
	}
	tables, err := l.source.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to load auxiliary tables: %w", err)
	}
	tableEntries, err := l.source.ListAllEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load auxiliary table entries: %w", err)
	}
	ix, err := Build(entries, tables, tableEntries)
	if err != nil {
		return err
	}
	l.current.Store(ix)
	return nil
}

// Index returns the current snapshot.
func (l *Live) Index() *Index { return l.current.Load() }

func (l *Live) ListByCodes(ctx context.Context, codes []dewey.Code) ([]models.Classification, error) {
	return l.Index().ListByCodes(ctx, codes)
}

func (l *Live) ListClasses(ctx context.Context, rng dewey.ClassRange) ([]models.Classification, error) {
	return l.Index().ListClasses(ctx, rng)
}

func (l *Live) ListDirectChildren(ctx context.Context, parent dewey.Code) ([]models.ClassificationNode, error) {
	return l.Index().ListDirectChildren(ctx, parent)
}

func (l *Live) ListDescendants(ctx context.Context, parent dewey.Code) ([]models.Classification, error) {
	return l.Index().ListDescendants(ctx, parent)
}

func (l *Live) GetByCode(ctx context.Context, code dewey.Code) (*models.Classification, error) {
	return l.Index().GetByCode(ctx, code)
}

func (l *Live) ListSiblings(ctx context.Context, base string) ([]models.Classification, error) {
	return l.Index().ListSiblings(ctx, base)
}

func (l *Live) Search(ctx context.Context, field dewey.SearchField, term string, limit int) ([]models.Classification, error) {
	return l.Index().Search(ctx, field, term, limit)
}

func (l *Live) ListTables(ctx context.Context) ([]models.AuxTable, error) {
	return l.Index().ListTables(ctx)
}

func (l *Live) ListTableEntries(ctx context.Context, tableNo string) ([]models.AuxTableEntry, error) {
	return l.Index().ListTableEntries(ctx, tableNo)
}
