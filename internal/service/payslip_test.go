package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"payrollportal/internal/model"
	"payrollportal/internal/repository"
	repoMocks "payrollportal/internal/repository/mocks"
	"payrollportal/internal/storage"
	storeMocks "payrollportal/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayslipService_ListForOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("month and year filter", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mDocs.On("ListByOwner", ctx, "12345678", repository.PeriodFilter{Month: 3, Year: 2024}).
			Return([]model.Document{{ID: 1, Filename: "march.pdf"}}, nil)

		svc := NewPayslipService(nil, mDocs)
		res, err := svc.ListForOwner(ctx, "12345678", 3, 2024)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, "march.pdf", res.Items[0].Filename)
	})

	t.Run("all months of a year", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mDocs.On("ListByOwner", ctx, "12345678", repository.PeriodFilter{Month: 0, Year: 2024}).
			Return([]model.Document{
				{ID: 2, PeriodMonth: 4},
				{ID: 1, PeriodMonth: 3},
			}, nil)

		svc := NewPayslipService(nil, mDocs)
		res, err := svc.ListForOwner(ctx, "12345678", 0, 2024)

		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("invalid month", func(t *testing.T) {
		svc := NewPayslipService(nil, new(repoMocks.MockDocumentRepository))
		_, err := svc.ListForOwner(ctx, "12345678", 13, 2024)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestPayslipService_Download(t *testing.T) {
	ctx := context.Background()
	owner := &model.Account{OwnerID: "12345678", Role: model.RoleEmployee}
	admin := &model.Account{OwnerID: "0000", Role: model.RoleAdmin}
	doc := &model.Document{
		ID:          7,
		Filename:    "12345678_march.pdf",
		OwnerID:     "12345678",
		StoragePath: "payslips/2024/03/x.pdf",
	}

	t.Run("owner downloads own document", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		mDocs.On("FindByID", ctx, int64(7)).Return(doc, nil)
		mStore.On("Get", ctx, doc.StoragePath).
			Return(io.NopCloser(strings.NewReader("%PDF")), storage.ObjectInfo{}, nil)

		svc := NewPayslipService(mStore, mDocs)
		rc, got, err := svc.Download(ctx, 7, owner)

		require.NoError(t, err)
		defer rc.Close()
		assert.Equal(t, doc.Filename, got.Filename)
		body, _ := io.ReadAll(rc)
		assert.Equal(t, "%PDF", string(body))
	})

	t.Run("admin downloads any document", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		mDocs.On("FindByID", ctx, int64(7)).Return(doc, nil)
		mStore.On("Get", ctx, doc.StoragePath).
			Return(io.NopCloser(strings.NewReader("%PDF")), storage.ObjectInfo{}, nil)

		svc := NewPayslipService(mStore, mDocs)
		rc, _, err := svc.Download(ctx, 7, admin)
		require.NoError(t, err)
		rc.Close()
	})

	t.Run("other employee is forbidden", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mDocs.On("FindByID", ctx, int64(7)).Return(doc, nil)

		svc := NewPayslipService(new(storeMocks.MockStorage), mDocs)
		_, _, err := svc.Download(ctx, 7, &model.Account{OwnerID: "99999999", Role: model.RoleEmployee})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown id", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mDocs.On("FindByID", ctx, int64(8)).Return(nil, sql.ErrNoRows)

		svc := NewPayslipService(new(storeMocks.MockStorage), mDocs)
		_, _, err := svc.Download(ctx, 8, owner)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("registry row with missing object", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		mDocs.On("FindByID", ctx, int64(7)).Return(doc, nil)
		mStore.On("Get", ctx, doc.StoragePath).
			Return(nil, storage.ObjectInfo{}, storage.ErrNotExist)

		svc := NewPayslipService(mStore, mDocs)
		_, _, err := svc.Download(ctx, 7, owner)

		// The stale row is reported, not deleted.
		assert.ErrorIs(t, err, ErrFileMissing)
		mDocs.AssertNumberOfCalls(t, "FindByID", 1)
	})
}

func TestPayslipService_PurgePeriod(t *testing.T) {
	ctx := context.Background()
	p := model.Period{Month: 3, Year: 2024}

	t.Run("removes rows and objects", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		mDocs.On("DeleteByPeriod", ctx, p).Return([]model.Document{
			{ID: 1, StoragePath: "payslips/2024/03/a.pdf"},
			{ID: 2, StoragePath: "payslips/2024/03/b.pdf"},
		}, nil)
		mStore.On("Delete", ctx, "payslips/2024/03/a.pdf").Return(nil)
		mStore.On("Delete", ctx, "payslips/2024/03/b.pdf").Return(storage.ErrNotExist)

		svc := NewPayslipService(mStore, mDocs)
		n, err := svc.PurgePeriod(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		mStore.AssertExpectations(t)
	})

	t.Run("empty period", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mDocs.On("DeleteByPeriod", ctx, p).Return([]model.Document{}, nil)

		svc := NewPayslipService(new(storeMocks.MockStorage), mDocs)
		n, err := svc.PurgePeriod(ctx, p)

		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("invalid period", func(t *testing.T) {
		svc := NewPayslipService(nil, new(repoMocks.MockDocumentRepository))
		_, err := svc.PurgePeriod(ctx, model.Period{Month: 3})
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("object deletion failure surfaces", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		mDocs.On("DeleteByPeriod", ctx, p).Return([]model.Document{
			{ID: 1, StoragePath: "payslips/2024/03/a.pdf"},
		}, nil)
		mStore.On("Delete", ctx, "payslips/2024/03/a.pdf").Return(errors.New("bucket unavailable"))

		svc := NewPayslipService(mStore, mDocs)
		_, err := svc.PurgePeriod(ctx, p)
		assert.Error(t, err)
	})
}
