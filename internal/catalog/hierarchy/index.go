// Package hierarchy holds the in-memory catalog index. The index is built
// once from the full set of stored entries and is immutable afterwards; Live
// swaps in a fresh one when the catalog changes.
package hierarchy

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/deweycatalog/catalog/shared/apperr"
	"github.com/deweycatalog/catalog/shared/dewey"
	"github.com/deweycatalog/catalog/shared/models"
)

type node struct {
	code           dewey.Code
	entry          models.Classification
	hasDescendants bool
}

// Index answers the same hierarchy questions as the SQL repository from a
// sorted slice of entries.
type Index struct {
	nodes        []node
	byCode       map[string]int
	tables       []models.AuxTable
	tableEntries map[string][]models.AuxTableEntry
}

// Build indexes entries and auxiliary tables. Every entry code must parse;
// duplicates keep the first occurrence.
func Build(entries []models.Classification, tables []models.AuxTable, tableEntries []models.AuxTableEntry) (*Index, error) {
	ix := &Index{
		nodes:        make([]node, 0, len(entries)),
		byCode:       make(map[string]int, len(entries)),
		tableEntries: make(map[string][]models.AuxTableEntry),
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		code, err := dewey.Parse(e.Code)
		if err != nil {
			return nil, fmt.Errorf("index entry %d: %w", e.ID, err)
		}
		if seen[code.String()] {
			continue
		}
		seen[code.String()] = true
		e.Code = code.String()
		ix.nodes = append(ix.nodes, node{code: code, entry: e})
	}
	sort.SliceStable(ix.nodes, func(i, j int) bool {
		return dewey.Compare(ix.nodes[i].code, ix.nodes[j].code) < 0
	})
	for i, n := range ix.nodes {
		ix.byCode[n.code.String()] = i
	}
	for _, n := range ix.nodes {
		ix.markAncestors(n.code.String())
	}

	ix.tables = append(ix.tables, tables...)
	sort.SliceStable(ix.tables, func(i, j int) bool {
		return tableLess(ix.tables[i].TableNo, ix.tables[j].TableNo)
	})
	for _, e := range tableEntries {
		ix.tableEntries[e.TableNo] = append(ix.tableEntries[e.TableNo], e)
	}
	for _, list := range ix.tableEntries {
		sort.SliceStable(list, func(i, j int) bool {
			return segmentsLess(list[i].Segments, list[j].Segments)
		})
	}
	return ix, nil
}

// markAncestors flags every stored code that raw textually extends.
func (ix *Index) markAncestors(raw string) {
	for p := raw; len(p) > 3; {
		p = strings.TrimSuffix(p[:len(p)-1], ".")
		if i, ok := ix.byCode[p]; ok {
			ix.nodes[i].hasDescendants = true
		}
	}
}

// Len is the number of indexed entries.
func (ix *Index) Len() int { return len(ix.nodes) }

func (ix *Index) ListByCodes(_ context.Context, codes []dewey.Code) ([]models.Classification, error) {
	idx := make([]int, 0, len(codes))
	for _, c := range codes {
		if i, ok := ix.byCode[c.String()]; ok {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	out := make([]models.Classification, 0, len(idx))
	for _, i := range idx {
		out = append(out, ix.nodes[i].entry)
	}
	return out, nil
}

func (ix *Index) ListClasses(_ context.Context, rng dewey.ClassRange) ([]models.Classification, error) {
	start := sort.Search(len(ix.nodes), func(i int) bool {
		return ix.nodes[i].code.Class() >= rng.From
	})
	var out []models.Classification
	for i := start; i < len(ix.nodes) && ix.nodes[i].code.Class() < rng.To; i++ {
		if rng.Contains(ix.nodes[i].code) {
			out = append(out, ix.nodes[i].entry)
		}
	}
	return out, nil
}

func (ix *Index) ListDirectChildren(_ context.Context, parent dewey.Code) ([]models.ClassificationNode, error) {
	var out []models.ClassificationNode
	ix.eachDescendant(parent, func(n node) {
		if dewey.IsDirectChild(parent, n.code) {
			out = append(out, models.ClassificationNode{Classification: n.entry, HasSubcategories: n.hasDescendants})
		}
	})
	return out, nil
}

func (ix *Index) ListDescendants(_ context.Context, parent dewey.Code) ([]models.Classification, error) {
	var out []models.Classification
	ix.eachDescendant(parent, func(n node) {
		out = append(out, n.entry)
	})
	return out, nil
}

func (ix *Index) GetByCode(_ context.Context, code dewey.Code) (*models.Classification, error) {
	i, ok := ix.byCode[code.String()]
	if !ok {
		return nil, apperr.NotFound("Dewey number %s not found", code)
	}
	e := ix.nodes[i].entry
	return &e, nil
}

// ListSiblings returns the entries whose code is base followed by one digit.
func (ix *Index) ListSiblings(ctx context.Context, base string) ([]models.Classification, error) {
	if len(base) == 2 {
		n, err := strconv.Atoi(base)
		if err != nil {
			return nil, nil
		}
		return ix.ListClasses(ctx, dewey.ClassRange{From: n * 10, To: n*10 + 10, Multiple: 1})
	}

	parent, err := dewey.Parse(strings.TrimSuffix(base, "."))
	if err != nil {
		return nil, nil
	}
	var out []models.Classification
	ix.eachDescendant(parent, func(n node) {
		raw := n.code.String()
		if len(raw) == len(base)+1 && strings.HasPrefix(raw, base) {
			out = append(out, n.entry)
		}
	})
	return out, nil
}

// Search ranks entries whose field contains term by SearchRank, then by the
// length of the field, then by code.
func (ix *Index) Search(_ context.Context, field dewey.SearchField, term string, limit int) ([]models.Classification, error) {
	value := fieldValue(field)
	if value == nil {
		return nil, apperr.Validation("Invalid search type %q", field)
	}

	type hit struct {
		entry  models.Classification
		rank   int
		length int
	}
	var hits []hit
	for _, n := range ix.nodes {
		v := value(n.entry)
		if dewey.Matches(v, term) {
			hits = append(hits, hit{entry: n.entry, rank: dewey.SearchRank(v, term), length: utf8.RuneCountInString(v)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.length != b.length {
			return a.length < b.length
		}
		return a.entry.Code < b.entry.Code
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]models.Classification, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out, nil
}

func (ix *Index) ListTables(_ context.Context) ([]models.AuxTable, error) {
	return ix.tables, nil
}

func (ix *Index) ListTableEntries(_ context.Context, tableNo string) ([]models.AuxTableEntry, error) {
	return ix.tableEntries[tableNo], nil
}

// eachDescendant visits, in order, every stored code that extends parent.
// Descendants share parent's class and decimal digit prefix, so they sit in
// one run of the sorted slice.
func (ix *Index) eachDescendant(parent dewey.Code, fn func(node)) {
	start := sort.Search(len(ix.nodes), func(i int) bool {
		return dewey.Compare(ix.nodes[i].code, parent) > 0
	})
	for i := start; i < len(ix.nodes); i++ {
		n := ix.nodes[i]
		if n.code.Class() != parent.Class() || !strings.HasPrefix(n.code.Decimals(), parent.Decimals()) {
			return
		}
		if dewey.IsDescendant(parent, n.code) {
			fn(n)
		}
	}
}

func fieldValue(field dewey.SearchField) func(models.Classification) string {
	switch field {
	case dewey.SearchTitle:
		return func(e models.Classification) string { return e.Title }
	case dewey.SearchDescription:
		return func(e models.Classification) string { return e.Description }
	}
	return nil
}

func tableLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func segmentsLess(a, b [7]string) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
