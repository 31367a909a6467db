package model

import "time"

// ReconciliationRow classifies one non-admin account for a period: whether at
// least one payslip was ingested for it, and if so the latest one.
type ReconciliationRow struct {
	OwnerID     string     `json:"owner_id"`
	DisplayName string     `json:"display_name"`
	Submitted   bool       `json:"submitted"`
	Filename    string     `json:"filename,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// ReconciliationView is the read-side join of the employee roster against the
// document registry for one period.
type ReconciliationView struct {
	Period    Period              `json:"period"`
	Rows      []ReconciliationRow `json:"rows"`
	Total     int                 `json:"total"`
	Submitted int                 `json:"submitted"`
	Pending   int                 `json:"pending"`
}
