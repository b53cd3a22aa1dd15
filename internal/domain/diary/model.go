// Package diary implements the patient symptom diary: dated entries with an
// optional symptom code, a 0..10 severity, and free-form notes.
package diary

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for diary dates.
const DateLayout = "2006-01-02"

// Severity bounds, inclusive.
const (
	MinSeverity = 0
	MaxSeverity = 10
)

// Entry maps to the diary_entries table.
type Entry struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientUUID uuid.UUID `db:"patient_uuid" json:"patient_uuid"`
	EntryDate   time.Time `db:"entry_date" json:"entry_date"`
	SymptomCode *string   `db:"symptom_code" json:"symptom_code,omitempty"`
	Severity    *int      `db:"severity" json:"severity,omitempty"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateRequest is the POST body. EntryDate uses DateLayout.
type CreateRequest struct {
	EntryDate   string  `json:"entry_date"`
	SymptomCode *string `json:"symptom_code,omitempty"`
	Severity    *int    `json:"severity,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// UpdateRequest is the PATCH body; nil fields are left unchanged.
type UpdateRequest struct {
	EntryDate   *string `json:"entry_date,omitempty"`
	SymptomCode *string `json:"symptom_code,omitempty"`
	Severity    *int    `json:"severity,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// ListFilter narrows a listing to an inclusive date window.
type ListFilter struct {
	From *time.Time
	To   *time.Time
}
