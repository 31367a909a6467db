package model

import "time"

// Document represents one stored payslip. This is a pure domain model with no
// database-specific dependencies or tags; it is shared across the HTTP,
// service and storage layers.
//
// Filename keeps the name the document carried inside the uploaded archive and
// is what employees see and download. StoragePath is the object key the bytes
// live under and is never exposed to employees.
type Document struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	OwnerID     string    `json:"owner_id"`
	UploadDate  time.Time `json:"upload_date"`
	StoragePath string    `json:"-"`
	PeriodMonth int       `json:"period_month"`
	PeriodYear  int       `json:"period_year"`
}

// Period is the (month, year) pair payslips are partitioned by. It is chosen
// by the administrator at upload time and is not a stored entity of its own.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Valid reports whether the period denotes a real calendar month.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= 1
}
