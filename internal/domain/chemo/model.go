// Package chemo tracks a patient's chemotherapy schedule: treatment dates
// with regimen and cycle details that move from scheduled to completed or
// cancelled.
package chemo

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for treatment dates.
const DateLayout = "2006-01-02"

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ChemoDate maps to the chemo_dates table.
type ChemoDate struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientUUID   uuid.UUID `db:"patient_uuid" json:"patient_uuid"`
	TreatmentDate time.Time `db:"treatment_date" json:"treatment_date"`
	Regimen       *string   `db:"regimen" json:"regimen,omitempty"`
	CycleNumber   *int      `db:"cycle_number" json:"cycle_number,omitempty"`
	Status        string    `db:"status" json:"status"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CreateRequest is the POST body. TreatmentDate uses DateLayout.
type CreateRequest struct {
	TreatmentDate string  `json:"treatment_date"`
	Regimen       *string `json:"regimen,omitempty"`
	CycleNumber   *int    `json:"cycle_number,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdateRequest is the PATCH body; nil fields are left unchanged. Status may
// only move from scheduled to completed or cancelled.
type UpdateRequest struct {
	TreatmentDate *string `json:"treatment_date,omitempty"`
	Regimen       *string `json:"regimen,omitempty"`
	CycleNumber   *int    `json:"cycle_number,omitempty"`
	Status        *string `json:"status,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}
