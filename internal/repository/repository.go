// Package repository contains data access layer abstractions. Implementations
// live in subpackages (e.g. postgres) and hold SQL only, no business logic.
package repository

import (
	"context"
	"errors"

	"payrollportal/internal/model"
)

// ErrDuplicate is returned by Create operations when a row with the same key
// already exists. Implementations translate their engine's unique-violation
// error into this sentinel.
var ErrDuplicate = errors.New("duplicate key")

// PeriodFilter narrows document queries by period. A zero Month matches every
// month of the year; a zero Year matches every year.
type PeriodFilter struct {
	Month int
	Year  int
}

// AccountRepository defines data access for portal accounts.
type AccountRepository interface {
	// Create inserts a new account row. Returns ErrDuplicate if the owner id
	// is already registered.
	Create(ctx context.Context, acc *model.Account) error

	// FindByOwnerID returns the account for the given owner id, or
	// sql.ErrNoRows if absent.
	FindByOwnerID(ctx context.Context, ownerID string) (*model.Account, error)

	// ListEmployees returns every non-admin account ordered by owner id.
	ListEmployees(ctx context.Context) ([]model.Account, error)

	// Delete removes an account row. It returns nil if the row was deleted or
	// did not exist. Documents belonging to the owner are left untouched.
	Delete(ctx context.Context, ownerID string) error
}

// DocumentRepository defines data access for payslip documents.
type DocumentRepository interface {
	// ReplaceForPeriod atomically removes any existing rows for the
	// document's (owner, month, year) key and inserts the new row, all inside
	// one transaction. It returns the stored document and the rows that were
	// displaced, so the caller can clean up their physical objects.
	ReplaceForPeriod(ctx context.Context, doc *model.Document) (*model.Document, []model.Document, error)

	// FindByID returns a document by its ID, or sql.ErrNoRows if absent.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// ListByOwner returns the owner's documents matching the period filter,
	// newest first.
	ListByOwner(ctx context.Context, ownerID string, f PeriodFilter) ([]model.Document, error)

	// LatestPerOwner returns, for the given period, the most recently
	// uploaded document of every owner that has at least one. Ties on
	// upload_date break toward the last-inserted row.
	LatestPerOwner(ctx context.Context, p model.Period) ([]model.Document, error)

	// DeleteByPeriod removes every row for the period and returns the deleted
	// documents so their physical objects can be removed as well.
	DeleteByPeriod(ctx context.Context, p model.Period) ([]model.Document, error)
}
