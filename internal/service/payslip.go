package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"payrollportal/internal/model"
	"payrollportal/internal/repository"
	"payrollportal/internal/storage"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrFileMissing reports a registry row whose physical object is gone.
	// The stale row is kept; only the download fails.
	ErrFileMissing = errors.New("file not found in storage")
	ErrForbidden   = errors.New("document belongs to another owner")
)

// PayslipListResult is the service-level DTO for an employee's documents.
type PayslipListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// PayslipService covers the employee-facing document use cases plus the
// administrator's period purge.
type PayslipService interface {
	// ListForOwner returns the owner's documents. A zero month matches all
	// months of the year; a zero year matches all years.
	ListForOwner(ctx context.Context, ownerID string, month, year int) (*PayslipListResult, error)

	// Download streams a document's bytes. The requester must own the
	// document or be an admin. A registry row pointing at a missing object
	// yields ErrFileMissing without touching the row.
	Download(ctx context.Context, id int64, requester *model.Account) (io.ReadCloser, *model.Document, error)

	// PurgePeriod removes every document of the period, rows and objects,
	// returning how many were removed.
	PurgePeriod(ctx context.Context, p model.Period) (int, error)
}

type payslipService struct {
	store storage.Storage
	docs  repository.DocumentRepository
}

// NewPayslipService constructs a new PayslipService.
func NewPayslipService(store storage.Storage, docs repository.DocumentRepository) PayslipService {
	return &payslipService{store: store, docs: docs}
}

func (s *payslipService) ListForOwner(ctx context.Context, ownerID string, month, year int) (*PayslipListResult, error) {
	if month < 0 || month > 12 || year < 0 {
		return nil, ErrInvalidPeriod
	}
	items, err := s.docs.ListByOwner(ctx, ownerID, repository.PeriodFilter{Month: month, Year: year})
	if err != nil {
		return nil, err
	}
	return &PayslipListResult{Items: items, Total: len(items)}, nil
}

func (s *payslipService) Download(ctx context.Context, id int64, requester *model.Account) (io.ReadCloser, *model.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if doc.OwnerID != requester.OwnerID && !requester.IsAdmin() {
		return nil, nil, ErrForbidden
	}

	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, nil, ErrFileMissing
		}
		return nil, nil, fmt.Errorf("fetch object: %w", err)
	}
	return rc, doc, nil
}

func (s *payslipService) PurgePeriod(ctx context.Context, p model.Period) (int, error) {
	if !p.Valid() {
		return 0, ErrInvalidPeriod
	}
	deleted, err := s.docs.DeleteByPeriod(ctx, p)
	if err != nil {
		return 0, err
	}
	for _, d := range deleted {
		if err := s.store.Delete(ctx, d.StoragePath); err != nil && !errors.Is(err, storage.ErrNotExist) {
			return len(deleted), fmt.Errorf("remove object %s: %w", d.StoragePath, err)
		}
	}
	return len(deleted), nil
}
