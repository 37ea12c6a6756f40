package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deweycatalog/catalog/shared/models"
)

// ClassificationWriteRepository bulk loads catalog data. It operates
// exclusively against PostgreSQL.
type ClassificationWriteRepository struct {
	db *sql.DB
}

func NewClassificationWriteRepository(db *sql.DB) *ClassificationWriteRepository {
	return &ClassificationWriteRepository{db: db}
}

// ImportResult counts the rows written by Import.
type ImportResult struct {
	Entries      int
	Tables       int
	TableEntries int
}

// Import upserts entries, tables and table entries in one transaction. Either
// everything is written or nothing is.
func (r *ClassificationWriteRepository) Import(
	ctx context.Context,
	entries []models.Classification,
	tables []models.AuxTable,
	tableEntries []models.AuxTableEntry,
) (ImportResult, error) {
	var res ImportResult

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classifications (code, title, description, note1, note2)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description,
			note1 = EXCLUDED.note1, note2 = EXCLUDED.note2`)
	if err != nil {
		return res, fmt.Errorf("failed to prepare classification upsert: %w", err)
	}
	defer entryStmt.Close()

	for _, e := range entries {
		if _, err := entryStmt.ExecContext(ctx, e.Code, e.Title, e.Description, nullString(e.Note1), nullString(e.Note2)); err != nil {
			return res, fmt.Errorf("failed to import classification %s: %w", e.Code, err)
		}
		res.Entries++
	}

	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO aux_tables (table_no, title, description) VALUES ($1, $2, $3)
			ON CONFLICT (table_no) DO UPDATE
			SET title = EXCLUDED.title, description = EXCLUDED.description`,
			t.TableNo, t.Title, t.Description,
		); err != nil {
			return res, fmt.Errorf("failed to import auxiliary table %s: %w", t.TableNo, err)
		}
		res.Tables++
	}

	for _, e := range tableEntries {
		s := e.Segments
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO aux_table_entries (table_no, g1, g2, g3, g4, g5, g6, g7, title, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (table_no, g1, g2, g3, g4, g5, g6, g7) DO UPDATE
			SET title = EXCLUDED.title, description = EXCLUDED.description`,
			e.TableNo, s[0], s[1], s[2], s[3], s[4], s[5], s[6], e.Title, e.Description,
		); err != nil {
			return res, fmt.Errorf("failed to import %s entry %s: %w", e.TableNo, e.Notation(), err)
		}
		res.TableEntries++
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("failed to commit import: %w", err)
	}
	return res, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
