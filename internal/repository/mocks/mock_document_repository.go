package mocks

import (
	"context"

	"payrollportal/internal/model"
	"payrollportal/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) ReplaceForPeriod(ctx context.Context, doc *model.Document) (*model.Document, []model.Document, error) {
	args := m.Called(ctx, doc)
	var stored *model.Document
	if args.Get(0) != nil {
		stored = args.Get(0).(*model.Document)
	}
	var displaced []model.Document
	if args.Get(1) != nil {
		displaced = args.Get(1).([]model.Document)
	}
	return stored, displaced, args.Error(2)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByOwner(ctx context.Context, ownerID string, f repository.PeriodFilter) ([]model.Document, error) {
	args := m.Called(ctx, ownerID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) LatestPerOwner(ctx context.Context, p model.Period) ([]model.Document, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) DeleteByPeriod(ctx context.Context, p model.Period) ([]model.Document, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}
