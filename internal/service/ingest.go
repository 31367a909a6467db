package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"payrollportal/internal/matcher"
	"payrollportal/internal/model"
	"payrollportal/internal/repository"
	"payrollportal/internal/storage"
)

var ErrInvalidPeriod = errors.New("period must be a valid month and year")

const payslipContentType = "application/pdf"

// IngestResult reports what a bulk ingestion run did. Entries that carried no
// extractable owner id are reflected only as a lower processed count.
type IngestResult struct {
	Processed int `json:"processed"`
	Replaced  int `json:"replaced"`
}

// IngestService runs the bulk unpack-match-store workflow on an uploaded
// payslip archive.
type IngestService interface {
	// ProcessArchive walks the ZIP, assigns each PDF entry to an owner by the
	// digit run in its filename, and stores it for the period, replacing any
	// previous document for the same (owner, period) key.
	//
	// An unexpected storage or database failure aborts the remaining entries;
	// entries committed before the failure stay committed, and the counts
	// accumulated so far are returned alongside the error.
	ProcessArchive(ctx context.Context, archive []byte, p model.Period) (*IngestResult, error)
}

type ingestService struct {
	store storage.Storage
	docs  repository.DocumentRepository
	now   func() time.Time
}

// NewIngestService constructs a new IngestService.
func NewIngestService(store storage.Storage, docs repository.DocumentRepository) IngestService {
	return &ingestService{store: store, docs: docs, now: time.Now}
}

func (s *ingestService) ProcessArchive(ctx context.Context, archive []byte, p model.Period) (*IngestResult, error) {
	if !p.Valid() {
		return nil, ErrInvalidPeriod
	}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	res := &IngestResult{}
	for _, entry := range zr.File {
		if !isPayslipEntry(entry) {
			continue
		}
		base := path.Base(entry.Name)

		ownerID, ok := matcher.OwnerID(base)
		if !ok {
			// No extractable owner id: skip silently, by contract.
			continue
		}

		data, err := readEntry(entry)
		if err != nil {
			return res, fmt.Errorf("read %s: %w", entry.Name, err)
		}

		replaced, err := s.storeOne(ctx, base, ownerID, data, p)
		if err != nil {
			return res, err
		}
		if replaced {
			res.Replaced++
		}
		res.Processed++
	}
	return res, nil
}

// storeOne writes the entry's bytes to a fresh object and swaps the registry
// row in one transaction. The object is written first so the registry never
// points at bytes that do not exist; a failed insert removes it again.
func (s *ingestService) storeOne(ctx context.Context, base, ownerID string, data []byte, p model.Period) (bool, error) {
	key := fmt.Sprintf("payslips/%04d/%02d/%d_%s", p.Year, p.Month, s.now().UnixNano(), base)

	_, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: payslipContentType,
		Metadata: map[string]string{
			"original-filename": base,
		},
	})
	if err != nil {
		return false, fmt.Errorf("store %s: %w", base, err)
	}

	doc := &model.Document{
		Filename:    base,
		OwnerID:     ownerID,
		UploadDate:  s.now().UTC(),
		StoragePath: key,
		PeriodMonth: p.Month,
		PeriodYear:  p.Year,
	}
	_, displaced, err := s.docs.ReplaceForPeriod(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return false, fmt.Errorf("register %s: %v; rollback delete failed: %v", base, err, delErr)
		}
		return false, fmt.Errorf("register %s: %w", base, err)
	}

	// The displaced rows are gone from the registry; their objects are
	// removed best-effort. A missing object means someone already cleaned it
	// up manually, which is fine.
	for _, old := range displaced {
		if err := s.store.Delete(ctx, old.StoragePath); err != nil && !errors.Is(err, storage.ErrNotExist) {
			return false, fmt.Errorf("remove replaced object %s: %w", old.StoragePath, err)
		}
	}
	return len(displaced) > 0, nil
}

// isPayslipEntry filters the archive down to real payslip documents,
// excluding directories and archiver-generated metadata entries.
func isPayslipEntry(entry *zip.File) bool {
	if entry.FileInfo().IsDir() {
		return false
	}
	name := entry.Name
	if strings.HasPrefix(name, "__MACOSX/") || strings.Contains(name, "/__MACOSX/") {
		return false
	}
	base := path.Base(name)
	if strings.HasPrefix(base, "._") || base == ".DS_Store" {
		return false
	}
	return strings.EqualFold(path.Ext(base), ".pdf")
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
