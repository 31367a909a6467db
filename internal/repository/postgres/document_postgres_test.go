package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"payrollportal/internal/model"
	"payrollportal/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var documentCols = []string{"id", "filename", "owner_id", "upload_date", "storage_path", "period_month", "period_year"}

func TestDocumentPostgres_ReplaceForPeriod(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		Filename:    "12345678_payslip.pdf",
		OwnerID:     "12345678",
		UploadDate:  now,
		StoragePath: "payslips/2024/03/1700000000_12345678_payslip.pdf",
		PeriodMonth: 3,
		PeriodYear:  2024,
	}

	t.Run("first upload displaces nothing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM files").
			WithArgs(doc.OwnerID, doc.PeriodMonth, doc.PeriodYear).
			WillReturnRows(sqlmock.NewRows(documentCols))
		mock.ExpectQuery("INSERT INTO files").
			WithArgs(doc.Filename, doc.OwnerID, doc.UploadDate, doc.StoragePath, doc.PeriodMonth, doc.PeriodYear).
			WillReturnRows(sqlmock.NewRows(documentCols).
				AddRow(1, doc.Filename, doc.OwnerID, doc.UploadDate, doc.StoragePath, doc.PeriodMonth, doc.PeriodYear))
		mock.ExpectCommit()

		stored, displaced, err := repo.ReplaceForPeriod(ctx, doc)

		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.ID)
		assert.Empty(t, displaced)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("re-upload returns displaced rows", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM files").
			WithArgs(doc.OwnerID, doc.PeriodMonth, doc.PeriodYear).
			WillReturnRows(sqlmock.NewRows(documentCols).
				AddRow(1, "old.pdf", doc.OwnerID, now.Add(-time.Hour), "payslips/2024/03/old.pdf", 3, 2024))
		mock.ExpectQuery("INSERT INTO files").
			WithArgs(doc.Filename, doc.OwnerID, doc.UploadDate, doc.StoragePath, doc.PeriodMonth, doc.PeriodYear).
			WillReturnRows(sqlmock.NewRows(documentCols).
				AddRow(2, doc.Filename, doc.OwnerID, doc.UploadDate, doc.StoragePath, doc.PeriodMonth, doc.PeriodYear))
		mock.ExpectCommit()

		stored, displaced, err := repo.ReplaceForPeriod(ctx, doc)

		require.NoError(t, err)
		assert.Equal(t, int64(2), stored.ID)
		require.Len(t, displaced, 1)
		assert.Equal(t, "payslips/2024/03/old.pdf", displaced[0].StoragePath)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM files").
			WithArgs(doc.OwnerID, doc.PeriodMonth, doc.PeriodYear).
			WillReturnRows(sqlmock.NewRows(documentCols))
		mock.ExpectQuery("INSERT INTO files").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, _, err := repo.ReplaceForPeriod(ctx, doc)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insert")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM files WHERE id = ?").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(documentCols).
				AddRow(7, "12345678_payslip.pdf", "12345678", time.Now(), "payslips/2024/03/x.pdf", 3, 2024))

		doc, err := repo.FindByID(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, "12345678", doc.OwnerID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM files WHERE id = ?").
			WithArgs(int64(8)).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, 8)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("month and year filter", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM files").
			WithArgs("12345678", 2024, 3).
			WillReturnRows(sqlmock.NewRows(documentCols).
				AddRow(1, "march.pdf", "12345678", time.Now(), "payslips/2024/03/march.pdf", 3, 2024))

		docs, err := repo.ListByOwner(ctx, "12345678", repository.PeriodFilter{Month: 3, Year: 2024})

		assert.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("all months of a year", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM files").
			WithArgs("12345678", 2024, 0).
			WillReturnRows(sqlmock.NewRows(documentCols).
				AddRow(2, "april.pdf", "12345678", time.Now(), "payslips/2024/04/april.pdf", 4, 2024).
				AddRow(1, "march.pdf", "12345678", time.Now(), "payslips/2024/03/march.pdf", 3, 2024))

		docs, err := repo.ListByOwner(ctx, "12345678", repository.PeriodFilter{Year: 2024})

		assert.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("no documents", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM files").
			WithArgs("99999999", 0, 0).
			WillReturnRows(sqlmock.NewRows(documentCols))

		docs, err := repo.ListByOwner(ctx, "99999999", repository.PeriodFilter{})

		assert.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestDocumentPostgres_LatestPerOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT DISTINCT ON \\(owner_id\\)").
		WithArgs(3, 2024).
		WillReturnRows(sqlmock.NewRows(documentCols).
			AddRow(5, "a.pdf", "11111111", time.Now(), "payslips/2024/03/a.pdf", 3, 2024).
			AddRow(6, "b.pdf", "22222222", time.Now(), "payslips/2024/03/b.pdf", 3, 2024))

	docs, err := repo.LatestPerOwner(ctx, model.Period{Month: 3, Year: 2024})

	assert.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_DeleteByPeriod(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("DELETE FROM files").
		WithArgs(3, 2024).
		WillReturnRows(sqlmock.NewRows(documentCols).
			AddRow(5, "a.pdf", "11111111", time.Now(), "payslips/2024/03/a.pdf", 3, 2024))

	docs, err := repo.DeleteByPeriod(ctx, model.Period{Month: 3, Year: 2024})

	assert.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "payslips/2024/03/a.pdf", docs[0].StoragePath)
}
