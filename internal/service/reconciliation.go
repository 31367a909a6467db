package service

import (
	"context"

	"payrollportal/internal/model"
	"payrollportal/internal/repository"
)

// ReconciliationService builds the "who has/hasn't received a payslip" view
// for a period. It is a pure read-side join of the roster against the
// document registry.
type ReconciliationService interface {
	Build(ctx context.Context, p model.Period) (*model.ReconciliationView, error)
}

type reconciliationService struct {
	accounts repository.AccountRepository
	docs     repository.DocumentRepository
}

// NewReconciliationService constructs a new ReconciliationService.
func NewReconciliationService(accounts repository.AccountRepository, docs repository.DocumentRepository) ReconciliationService {
	return &reconciliationService{accounts: accounts, docs: docs}
}

func (s *reconciliationService) Build(ctx context.Context, p model.Period) (*model.ReconciliationView, error) {
	if !p.Valid() {
		return nil, ErrInvalidPeriod
	}

	roster, err := s.accounts.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.docs.LatestPerOwner(ctx, p)
	if err != nil {
		return nil, err
	}
	byOwner := make(map[string]model.Document, len(latest))
	for _, d := range latest {
		byOwner[d.OwnerID] = d
	}

	view := &model.ReconciliationView{
		Period: p,
		Rows:   make([]model.ReconciliationRow, 0, len(roster)),
	}
	for _, acc := range roster {
		row := model.ReconciliationRow{
			OwnerID:     acc.OwnerID,
			DisplayName: acc.DisplayName,
		}
		if d, ok := byOwner[acc.OwnerID]; ok {
			row.Submitted = true
			row.Filename = d.Filename
			at := d.UploadDate
			row.SubmittedAt = &at
			view.Submitted++
		}
		view.Rows = append(view.Rows, row)
	}
	view.Total = len(roster)
	view.Pending = view.Total - view.Submitted
	return view, nil
}
