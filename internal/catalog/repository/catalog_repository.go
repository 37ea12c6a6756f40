package repository

import "database/sql"

// CatalogRepository serves every catalog read from Postgres: the
// classification hierarchy and the auxiliary tables.
type CatalogRepository struct {
	*ClassificationReadRepository
	*AuxTableRepository
}

func NewCatalogRepository(db *sql.DB, classifications *ClassificationReadRepository) *CatalogRepository {
	return &CatalogRepository{
		ClassificationReadRepository: classifications,
		AuxTableRepository:           NewAuxTableRepository(db),
	}
}
