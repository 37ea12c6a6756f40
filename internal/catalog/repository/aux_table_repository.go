package repository

import (
	"context"
	"database/sql"

	"github.com/deweycatalog/catalog/shared/apperr"
	"github.com/deweycatalog/catalog/shared/models"
)

const auxEntryColumns = `id, table_no, g1, g2, g3, g4, g5, g6, g7, title, description`

// AuxTableRepository reads the auxiliary tables (T1-T6).
type AuxTableRepository struct {
	db *sql.DB
}

func NewAuxTableRepository(db *sql.DB) *AuxTableRepository {
	return &AuxTableRepository{db: db}
}

func (r *AuxTableRepository) ListTables(ctx context.Context) ([]models.AuxTable, error) {
	query := `SELECT id, table_no, title, description FROM aux_tables ORDER BY LENGTH(table_no), table_no`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperr.Store("failed to list auxiliary tables", err)
	}
	defer rows.Close()

	var tables []models.AuxTable
	for rows.Next() {
		var t models.AuxTable
		if err := rows.Scan(&t.ID, &t.TableNo, &t.Title, &t.Description); err != nil {
			return nil, apperr.Store("failed to scan auxiliary table", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("failed to list auxiliary tables", err)
	}
	return tables, nil
}

func (r *AuxTableRepository) ListTableEntries(ctx context.Context, tableNo string) ([]models.AuxTableEntry, error) {
	query := `SELECT ` + auxEntryColumns + ` FROM aux_table_entries
		WHERE table_no = $1
		ORDER BY g1, g2, g3, g4, g5, g6, g7, id`
	return r.queryEntries(ctx, query, tableNo)
}

// ListAllEntries returns every entry of every table, used to build the
// in-memory index.
func (r *AuxTableRepository) ListAllEntries(ctx context.Context) ([]models.AuxTableEntry, error) {
	query := `SELECT ` + auxEntryColumns + ` FROM aux_table_entries
		ORDER BY table_no, g1, g2, g3, g4, g5, g6, g7, id`
	return r.queryEntries(ctx, query)
}

func (r *AuxTableRepository) queryEntries(ctx context.Context, query string, args ...any) ([]models.AuxTableEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store("failed to list auxiliary table entries", err)
	}
	defer rows.Close()

	var entries []models.AuxTableEntry
	for rows.Next() {
		var e models.AuxTableEntry
		s := &e.Segments
		if err := rows.Scan(
			&e.ID, &e.TableNo, &s[0], &s[1], &s[2], &s[3], &s[4], &s[5], &s[6],
			&e.Title, &e.Description,
		); err != nil {
			return nil, apperr.Store("failed to scan auxiliary table entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("failed to list auxiliary table entries", err)
	}
	return entries, nil
}
