package cqrs

import "github.com/deweycatalog/catalog/shared/models"

type RegisterCommand struct {
	Username string
	Password string
}

type LoginCommand struct {
	Username string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}

// ImportCatalogCommand replaces or inserts classification data in bulk.
type ImportCatalogCommand struct {
	Entries      []models.Classification
	Tables       []models.AuxTable
	TableEntries []models.AuxTableEntry
	Source       string
}
