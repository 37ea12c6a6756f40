package query

import (
	"context"
	"errors"
	"testing"

	"github.com/deweycatalog/catalog/internal/catalog/hierarchy"
	"github.com/deweycatalog/catalog/shared/apperr"
	"github.com/deweycatalog/catalog/shared/cqrs"
	"github.com/deweycatalog/catalog/shared/dewey"
	"github.com/deweycatalog/catalog/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader fails every call and records that the store was reached.
type countingReader struct {
	calls int
	err   error
}

func (r *countingReader) hit() error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	return errors.New("unexpected store call")
}

func (r *countingReader) ListByCodes(context.Context, []dewey.Code) ([]models.Classification, error) {
	return nil, r.hit()
}
func (r *countingReader) ListClasses(context.Context, dewey.ClassRange) ([]models.Classification, error) {
	return nil, r.hit()
}
func (r *countingReader) ListDirectChildren(context.Context, dewey.Code) ([]models.ClassificationNode, error) {
	return nil, r.hit()
}
func (r *countingReader) ListDescendants(context.Context, dewey.Code) ([]models.Classification, error) {
	return nil, r.hit()
}
func (r *countingReader) GetByCode(context.Context, dewey.Code) (*models.Classification, error) {
	return nil, r.hit()
}
func (r *countingReader) ListSiblings(context.Context, string) ([]models.Classification, error) {
	return nil, r.hit()
}
func (r *countingReader) Search(context.Context, dewey.SearchField, string, int) ([]models.Classification, error) {
	return nil, r.hit()
}
func (r *countingReader) ListTables(context.Context) ([]models.AuxTable, error) {
	return nil, r.hit()
}
func (r *countingReader) ListTableEntries(context.Context, string) ([]models.AuxTableEntry, error) {
	return nil, r.hit()
}

func TestInvalidInputNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	reader := &countingReader{}
	svc := NewCatalogQueryService(reader, 50)

	calls := map[string]func() error{
		"decades not a century": func() error { _, err := svc.Decades(ctx, cqrs.ChildrenQuery{Code: "610"}); return err },
		"decades too short":     func() error { _, err := svc.Decades(ctx, cqrs.ChildrenQuery{Code: "60"}); return err },
		"units with decimals":   func() error { _, err := svc.Units(ctx, cqrs.ChildrenQuery{Code: "620.1"}); return err },
		"units non numeric":     func() error { _, err := svc.Units(ctx, cqrs.ChildrenQuery{Code: "abc"}); return err },
		"decimal on decimal":    func() error { _, err := svc.DecimalChildren(ctx, cqrs.ChildrenQuery{Code: "629.1"}); return err },
		"deeper malformed":      func() error { _, err := svc.DeeperChildren(ctx, cqrs.ChildrenQuery{Code: "629.x"}); return err },
		"leaf four digits":      func() error { _, err := svc.LeafChildren(ctx, cqrs.ChildrenQuery{Code: "6291"}); return err },
		"details empty":         func() error { _, err := svc.Details(ctx, cqrs.DetailsQuery{}); return err },
		"related bad level":     func() error { _, err := svc.Related(ctx, cqrs.RelatedQuery{BaseNumber: "62", Level: 3}); return err },
		"related bad base":      func() error { _, err := svc.Related(ctx, cqrs.RelatedQuery{BaseNumber: "629", Level: 1}); return err },
		"search empty":          func() error { _, err := svc.Search(ctx, cqrs.SearchQuery{Term: "  "}); return err },
		"search bad field":      func() error { _, err := svc.Search(ctx, cqrs.SearchQuery{Term: "math", Field: "note1"}); return err },
		"search missing field":  func() error { _, err := svc.Search(ctx, cqrs.SearchQuery{Term: "math"}); return err },
		"related bad member":    func() error { _, err := svc.Related(ctx, cqrs.RelatedQuery{Code: "62x"}); return err },
		"table bad number":      func() error { _, err := svc.TableEntries(ctx, cqrs.TableEntriesQuery{TableNo: "X9"}); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
	assert.Zero(t, reader.calls)
}

func TestStoreErrorsPropagate(t *testing.T) {
	reader := &countingReader{err: apperr.Store("failed to list classes", errors.New("timeout"))}
	svc := NewCatalogQueryService(reader, 50)

	_, err := svc.Units(context.Background(), cqrs.ChildrenQuery{Code: "620"})
	assert.ErrorIs(t, err, apperr.ErrStore)
	assert.Equal(t, 1, reader.calls)
}

func newIndexedService(t *testing.T) *CatalogQueryService {
	t.Helper()
	ix, err := hierarchy.Build(
		[]models.Classification{
			{Code: "000", Title: "Computer science"},
			{Code: "600", Title: "Technology"},
			{Code: "620", Title: "Engineering"},
			{Code: "629", Title: "Other branches of engineering"},
			{Code: "629.1", Title: "Aerospace engineering"},
			{Code: "629.13", Title: "Aeronautics"},
			{Code: "629.2", Title: "Motor land vehicles"},
			{Code: "900", Title: "History and geography"},
			{Code: "990", Title: "History of other areas"},
			{Code: "999", Title: "Extraterrestrial worlds"},
		},
		[]models.AuxTable{
			{TableNo: "T1", Title: "Standard subdivisions"},
			{TableNo: "T3", Title: "Subdivisions for the arts"},
		},
		[]models.AuxTableEntry{{TableNo: "T3", Segments: [7]string{"1"}, Title: "Poetry"}},
	)
	require.NoError(t, err)
	return NewCatalogQueryService(ix, 50)
}

func TestHierarchyLevels(t *testing.T) {
	svc := newIndexedService(t)
	ctx := context.Background()

	main, err := svc.MainNumbers(ctx)
	require.NoError(t, err)
	assert.Len(t, main, 3)

	decades, err := svc.Decades(ctx, cqrs.ChildrenQuery{Code: "600"})
	require.NoError(t, err)
	require.Len(t, decades, 1)
	assert.Equal(t, "620", decades[0].Code)

	decades, err = svc.Decades(ctx, cqrs.ChildrenQuery{Code: "900"})
	require.NoError(t, err)
	require.Len(t, decades, 1)
	assert.Equal(t, "990", decades[0].Code)

	units, err := svc.Units(ctx, cqrs.ChildrenQuery{Code: "990"})
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "999", units[1].Code)

	decimals, err := svc.DecimalChildren(ctx, cqrs.ChildrenQuery{Code: "629"})
	require.NoError(t, err)
	require.Len(t, decimals, 2)
	assert.True(t, decimals[0].HasSubcategories)
	assert.False(t, decimals[1].HasSubcategories)

	deeper, err := svc.DeeperChildren(ctx, cqrs.ChildrenQuery{Code: "629.1"})
	require.NoError(t, err)
	require.Len(t, deeper, 1)
	assert.Equal(t, "629.13", deeper[0].Code)

	leaves, err := svc.LeafChildren(ctx, cqrs.ChildrenQuery{Code: "629"})
	require.NoError(t, err)
	assert.Len(t, leaves, 3)
}

func TestEmptyResultsAreNotFound(t *testing.T) {
	svc := newIndexedService(t)
	ctx := context.Background()

	_, err := svc.Decades(ctx, cqrs.ChildrenQuery{Code: "100"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.DeeperChildren(ctx, cqrs.ChildrenQuery{Code: "629.13"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Search(ctx, cqrs.SearchQuery{Term: "zoology", Field: "title"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.TableEntries(ctx, cqrs.TableEntriesQuery{TableNo: "T6"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDetailsAndRelated(t *testing.T) {
	svc := newIndexedService(t)
	ctx := context.Background()

	e, err := svc.Details(ctx, cqrs.DetailsQuery{Code: "629.13"})
	require.NoError(t, err)
	assert.Equal(t, "Aeronautics", e.Title)

	_, err = svc.Details(ctx, cqrs.DetailsQuery{Code: "629.14"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	related, err := svc.Related(ctx, cqrs.RelatedQuery{BaseNumber: "62", Level: dewey.SiblingClass})
	require.NoError(t, err)
	assert.Len(t, related, 2)

	related, err = svc.Related(ctx, cqrs.RelatedQuery{BaseNumber: "629.", Level: dewey.SiblingDecimal})
	require.NoError(t, err)
	assert.Len(t, related, 2)

	related, err = svc.Related(ctx, cqrs.RelatedQuery{Code: "629.2"})
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, "629.1", related[0].Code)

	related, err = svc.Related(ctx, cqrs.RelatedQuery{Code: "620"})
	require.NoError(t, err)
	assert.Len(t, related, 2)
}

func TestSearchTitle(t *testing.T) {
	svc := newIndexedService(t)
	got, err := svc.Search(context.Background(), cqrs.SearchQuery{Term: "engineering", Field: "Title"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "620", got[0].Code)
}

func TestTableEntriesNormalizesNumber(t *testing.T) {
	svc := newIndexedService(t)
	for _, in := range []string{"3", "t3", "T3"} {
		views, err := svc.TableEntries(context.Background(), cqrs.TableEntriesQuery{TableNo: in})
		require.NoError(t, err, in)
		require.Len(t, views, 1)
		assert.Equal(t, "1", views[0].Notation)
	}
}

func TestTableEntriesOfEmptyTable(t *testing.T) {
	svc := newIndexedService(t)
	views, err := svc.TableEntries(context.Background(), cqrs.TableEntriesQuery{TableNo: "1"})
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}
