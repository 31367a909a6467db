package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"payrollportal/internal/model"
	"payrollportal/internal/repository"
)

const documentColumns = `id, filename, owner_id, upload_date, storage_path, period_month, period_year`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

func scanDocument(s interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	if err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.OwnerID,
		&d.UploadDate,
		&d.StoragePath,
		&d.PeriodMonth,
		&d.PeriodYear,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDocuments(rows *sql.Rows) ([]model.Document, error) {
	defer rows.Close()
	docs := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// ReplaceForPeriod deletes every row for the document's (owner, month, year)
// key and inserts the new row inside a single transaction, so a reader never
// observes the key without a current document once one existed.
func (r *DocumentPostgres) ReplaceForPeriod(ctx context.Context, doc *model.Document) (*model.Document, []model.Document, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const qDelete = `
		DELETE FROM files
		WHERE owner_id = $1 AND period_month = $2 AND period_year = $3
		RETURNING ` + documentColumns
	rows, err := tx.QueryContext(ctx, qDelete, doc.OwnerID, doc.PeriodMonth, doc.PeriodYear)
	if err != nil {
		return nil, nil, fmt.Errorf("delete existing: %w", err)
	}
	displaced, err := collectDocuments(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("delete existing: %w", err)
	}

	const qInsert = `
		INSERT INTO files (filename, owner_id, upload_date, storage_path, period_month, period_year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + documentColumns
	row := tx.QueryRowContext(ctx, qInsert,
		doc.Filename,
		doc.OwnerID,
		doc.UploadDate,
		doc.StoragePath,
		doc.PeriodMonth,
		doc.PeriodYear,
	)
	stored, err := scanDocument(row)
	if err != nil {
		return nil, nil, fmt.Errorf("insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return stored, displaced, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM files WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// ListByOwner returns the owner's documents matching the period filter,
// newest first. Zero month or year in the filter means "any".
func (r *DocumentPostgres) ListByOwner(ctx context.Context, ownerID string, f repository.PeriodFilter) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM files
		WHERE owner_id = $1
		  AND ($2 = 0 OR period_year = $2)
		  AND ($3 = 0 OR period_month = $3)
		ORDER BY period_year DESC, period_month DESC, upload_date DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID, f.Year, f.Month)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

// LatestPerOwner returns each owner's newest document for the period. Ties on
// upload_date break toward the highest id, i.e. the last-inserted row.
func (r *DocumentPostgres) LatestPerOwner(ctx context.Context, p model.Period) ([]model.Document, error) {
	const q = `
		SELECT DISTINCT ON (owner_id) ` + documentColumns + `
		FROM files
		WHERE period_month = $1 AND period_year = $2
		ORDER BY owner_id, upload_date DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, p.Month, p.Year)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

// DeleteByPeriod removes every row for the period, returning the deleted
// documents for physical cleanup.
func (r *DocumentPostgres) DeleteByPeriod(ctx context.Context, p model.Period) ([]model.Document, error) {
	const q = `
		DELETE FROM files
		WHERE period_month = $1 AND period_year = $2
		RETURNING ` + documentColumns
	rows, err := r.db.QueryContext(ctx, q, p.Month, p.Year)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}
