package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/deweycatalog/catalog/shared/apperr"
	"github.com/deweycatalog/catalog/shared/dewey"
	"github.com/deweycatalog/catalog/shared/models"
	sharedredis "github.com/deweycatalog/catalog/shared/redis"
	"github.com/lib/pq"
)

// ViewKeyPrefix prefixes every cached catalog read model.
const ViewKeyPrefix = "catalog:view:"

const classificationColumns = `c.id, c.code, c.title, c.description, COALESCE(c.note1, ''), COALESCE(c.note2, '')`

// The class part is fixed width, so comparing it as text is numeric order.
// Decimal digits compare lexically with inner dots removed.
const orderByCode = `
	ORDER BY LEFT(c.code, 3) COLLATE "C",
		REPLACE(SUBSTRING(c.code FROM 5), '.', '') COLLATE "C",
		c.code COLLATE "C"`

const hasSubcategoriesColumn = `EXISTS (
		SELECT 1 FROM classifications d
		WHERE d.code LIKE c.code || '%' AND d.code <> c.code
	)`

// CacheObserver is told about every read model cache lookup.
type CacheObserver interface {
	CacheLookup(view string, hit bool)
}

// ClassificationReadRepository answers hierarchy questions with range and
// prefix predicates over the flat classifications table. Results are cached in
// Redis when a cache is configured.
type ClassificationReadRepository struct {
	db       *sql.DB
	lists    *sharedredis.ViewCache[[]models.Classification]
	nodes    *sharedredis.ViewCache[[]models.ClassificationNode]
	observer CacheObserver
}

// NewClassificationReadRepository wires the repository. Both caches may be
// nil, and so may the observer.
func NewClassificationReadRepository(
	db *sql.DB,
	lists *sharedredis.ViewCache[[]models.Classification],
	nodes *sharedredis.ViewCache[[]models.ClassificationNode],
	observer CacheObserver,
) *ClassificationReadRepository {
	return &ClassificationReadRepository{db: db, lists: lists, nodes: nodes, observer: observer}
}

// ListByCodes returns the stored entries among codes.
func (r *ClassificationReadRepository) ListByCodes(ctx context.Context, codes []dewey.Code) ([]models.Classification, error) {
	raw := make([]string, len(codes))
	for i, c := range codes {
		raw[i] = c.String()
	}
	key := "codes:" + strings.Join(raw, ",")
	return cachedList(ctx, r, r.lists, "codes", key, func() ([]models.Classification, error) {
		query := `SELECT ` + classificationColumns + ` FROM classifications c
			WHERE c.code = ANY($1)` + orderByCode
		return r.queryClassifications(ctx, "failed to list classifications", query, pq.Array(raw))
	})
}

// ListClasses returns the three digit classes inside rng.
func (r *ClassificationReadRepository) ListClasses(ctx context.Context, rng dewey.ClassRange) ([]models.Classification, error) {
	multiple := max(rng.Multiple, 1)
	key := fmt.Sprintf("classes:%d-%d-%d", rng.From, rng.To, multiple)
	return cachedList(ctx, r, r.lists, "classes", key, func() ([]models.Classification, error) {
		query := `SELECT ` + classificationColumns + ` FROM classifications c
			WHERE LENGTH(c.code) = 3
			  AND CAST(LEFT(c.code, 3) AS INTEGER) >= $1
			  AND CAST(LEFT(c.code, 3) AS INTEGER) < $2
			  AND CAST(LEFT(c.code, 3) AS INTEGER) % $3 = 0` + orderByCode
		return r.queryClassifications(ctx, "failed to list classes", query, rng.From, rng.To, multiple)
	})
}

// ListDirectChildren returns the entries one digit below parent, flagged with
// whether anything is stored below them.
func (r *ClassificationReadRepository) ListDirectChildren(ctx context.Context, parent dewey.Code) ([]models.ClassificationNode, error) {
	key := "children:" + parent.String()
	return cachedList(ctx, r, r.nodes, "children", key, func() ([]models.ClassificationNode, error) {
		query := `SELECT ` + classificationColumns + `, ` + hasSubcategoriesColumn + ` FROM classifications c
			WHERE c.code LIKE $1 || '%'
			  AND c.code <> $2
			  AND LENGTH(REPLACE(c.code, '.', '')) = $3` + orderByCode
		rows, err := r.db.QueryContext(ctx, query, descendantPrefix(parent), parent.String(), parent.Digits()+1)
		if err != nil {
			return nil, apperr.Store("failed to list children", err)
		}
		defer rows.Close()

		var nodes []models.ClassificationNode
		for rows.Next() {
			var n models.ClassificationNode
			if err := rows.Scan(
				&n.ID, &n.Code, &n.Title, &n.Description, &n.Note1, &n.Note2,
				&n.HasSubcategories,
			); err != nil {
				return nil, apperr.Store("failed to scan child", err)
			}
			nodes = append(nodes, n)
		}
		if err := rows.Err(); err != nil {
			return nil, apperr.Store("failed to list children", err)
		}
		return nodes, nil
	})
}

// ListDescendants returns everything stored below parent, at any depth.
func (r *ClassificationReadRepository) ListDescendants(ctx context.Context, parent dewey.Code) ([]models.Classification, error) {
	key := "descendants:" + parent.String()
	return cachedList(ctx, r, r.lists, "descendants", key, func() ([]models.Classification, error) {
		query := `SELECT ` + classificationColumns + ` FROM classifications c
			WHERE c.code LIKE $1 || '%' AND c.code <> $2` + orderByCode
		return r.queryClassifications(ctx, "failed to list descendants", query, descendantPrefix(parent), parent.String())
	})
}

// ListSiblings returns the entries whose code is base followed by one digit.
func (r *ClassificationReadRepository) ListSiblings(ctx context.Context, base string) ([]models.Classification, error) {
	key := "siblings:" + base
	return cachedList(ctx, r, r.lists, "siblings", key, func() ([]models.Classification, error) {
		query := `SELECT ` + classificationColumns + ` FROM classifications c
			WHERE c.code LIKE $1 || '_' AND RIGHT(c.code, 1) BETWEEN '0' AND '9'` + orderByCode
		return r.queryClassifications(ctx, "failed to list related categories", query, base)
	})
}

// GetByCode returns a single entry. It is not cached.
func (r *ClassificationReadRepository) GetByCode(ctx context.Context, code dewey.Code) (*models.Classification, error) {
	query := `SELECT ` + classificationColumns + ` FROM classifications c WHERE c.code = $1`

	var e models.Classification
	err := r.db.QueryRowContext(ctx, query, code.String()).Scan(
		&e.ID, &e.Code, &e.Title, &e.Description, &e.Note1, &e.Note2,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Dewey number %s not found", code)
	}
	if err != nil {
		return nil, apperr.Store("failed to get classification", err)
	}
	return &e, nil
}

var searchColumns = map[dewey.SearchField]string{
	dewey.SearchTitle:       "c.title",
	dewey.SearchDescription: "c.description",
}

// Search ranks entries whose field contains term: exact, whole word, prefix,
// suffix, then anything else, shorter values first within a tier.
func (r *ClassificationReadRepository) Search(ctx context.Context, field dewey.SearchField, term string, limit int) ([]models.Classification, error) {
	col, ok := searchColumns[field]
	if !ok {
		return nil, apperr.Validation("Invalid search type %q", field)
	}
	lowered := strings.ToLower(term)
	escaped := escapeLike(lowered)

	query := fmt.Sprintf(`SELECT %[1]s FROM classifications c
		WHERE LOWER(%[2]s) LIKE '%%' || $1 || '%%' ESCAPE '\'
		ORDER BY CASE
			WHEN LOWER(%[2]s) = $2 THEN 1
			WHEN LOWER(%[2]s) LIKE '%% ' || $1 || ' %%' ESCAPE '\' THEN 2
			WHEN LOWER(%[2]s) LIKE $1 || '%%' ESCAPE '\' THEN 3
			WHEN LOWER(%[2]s) LIKE '%%' || $1 ESCAPE '\' THEN 4
			ELSE 5
		END,
		LENGTH(%[2]s),
		c.code COLLATE "C"
		LIMIT $3`, classificationColumns, col)

	return r.queryClassifications(ctx, "failed to search classifications", query, escaped, lowered, limit)
}

// ListAll returns every entry, used to build the in-memory index.
func (r *ClassificationReadRepository) ListAll(ctx context.Context) ([]models.Classification, error) {
	query := `SELECT ` + classificationColumns + ` FROM classifications c` + orderByCode
	return r.queryClassifications(ctx, "failed to load classifications", query)
}

func (r *ClassificationReadRepository) queryClassifications(ctx context.Context, op, query string, args ...any) ([]models.Classification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store(op, err)
	}
	defer rows.Close()

	var entries []models.Classification
	for rows.Next() {
		var e models.Classification
		if err := rows.Scan(&e.ID, &e.Code, &e.Title, &e.Description, &e.Note1, &e.Note2); err != nil {
			return nil, apperr.Store(op, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(op, err)
	}
	return entries, nil
}

// InvalidateViews drops every cached catalog read model.
func (r *ClassificationReadRepository) InvalidateViews(ctx context.Context) (int, error) {
	// Both caches share one keyspace.
	if r.lists != nil {
		return r.lists.DeletePrefix(ctx, ViewKeyPrefix)
	}
	return r.nodes.DeletePrefix(ctx, ViewKeyPrefix)
}

// cachedList serves a list view from Redis, loading and warming it on a miss.
func cachedList[T any](
	ctx context.Context,
	r *ClassificationReadRepository,
	cache *sharedredis.ViewCache[[]T],
	view, key string,
	load func() ([]T, error),
) ([]T, error) {
	cacheKey := ViewKeyPrefix + key
	if cached, ok := cache.Get(ctx, cacheKey); ok {
		r.observe(view, true)
		return *cached, nil
	}
	r.observe(view, false)

	items, err := load()
	if err != nil {
		return nil, err
	}
	cache.Set(ctx, cacheKey, &items)
	return items, nil
}

func (r *ClassificationReadRepository) observe(view string, hit bool) {
	if r.observer != nil && (r.lists != nil || r.nodes != nil) {
		r.observer.CacheLookup(view, hit)
	}
}

// descendantPrefix is the text every descendant of parent starts with. A class
// must be followed by the decimal point.
func descendantPrefix(parent dewey.Code) string {
	if parent.IsClass() {
		return parent.String() + "."
	}
	return parent.String()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
