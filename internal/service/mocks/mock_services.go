package mocks

import (
	"context"
	"io"

	"payrollportal/internal/config"
	"payrollportal/internal/model"
	"payrollportal/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, ownerID, password, displayName string) (*model.Account, error) {
	args := m.Called(ctx, ownerID, password, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountService) Authenticate(ctx context.Context, ownerID, password string) (*model.Account, error) {
	args := m.Called(ctx, ownerID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountService) ListEmployees(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *MockAccountService) Delete(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockAccountService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) ProcessArchive(ctx context.Context, archive []byte, p model.Period) (*service.IngestResult, error) {
	args := m.Called(ctx, archive, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) Build(ctx context.Context, p model.Period) (*model.ReconciliationView, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconciliationView), args.Error(1)
}

type MockPayslipService struct {
	mock.Mock
}

func (m *MockPayslipService) ListForOwner(ctx context.Context, ownerID string, month, year int) (*service.PayslipListResult, error) {
	args := m.Called(ctx, ownerID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PayslipListResult), args.Error(1)
}

func (m *MockPayslipService) Download(ctx context.Context, id int64, requester *model.Account) (io.ReadCloser, *model.Document, error) {
	args := m.Called(ctx, id, requester)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var doc *model.Document
	if args.Get(1) != nil {
		doc = args.Get(1).(*model.Document)
	}
	return rc, doc, args.Error(2)
}

func (m *MockPayslipService) PurgePeriod(ctx context.Context, p model.Period) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}
