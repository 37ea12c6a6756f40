package cqrs

// ---------- Hierarchy queries ----------

// ChildrenQuery asks for the children of Code at one hierarchy level. Code is
// the raw path parameter; it is validated by the query service.
type ChildrenQuery struct {
	Code string
}

// DetailsQuery fetches a single classification.
type DetailsQuery struct {
	Code string
}

// RelatedQuery fetches the siblings sharing BaseNumber at Level 1 or 2. When
// Code is set the base and level are derived from it instead.
type RelatedQuery struct {
	BaseNumber string
	Level      int
	Code       string
}

// ---------- Search ----------

type SearchQuery struct {
	Term  string
	Field string
}

// ---------- Auxiliary tables ----------

type TableEntriesQuery struct {
	TableNo string
}
