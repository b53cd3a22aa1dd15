// Package question implements the patient question list: questions a patient
// writes down for their care team, optionally shared with the physician and
// marked answered during a visit.
package question

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategory applies when a question is created without one.
const DefaultCategory = "other"

// Question maps to the patient_questions table.
type Question struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	PatientUUID        uuid.UUID `db:"patient_uuid" json:"patient_uuid"`
	QuestionText       string    `db:"question_text" json:"question_text"`
	ShareWithPhysician bool      `db:"share_with_physician" json:"share_with_physician"`
	IsAnswered         bool      `db:"is_answered" json:"is_answered"`
	Category           string    `db:"category" json:"category"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// CreateRequest is the POST body. Omitted fields take their defaults.
type CreateRequest struct {
	QuestionText       string  `json:"question_text"`
	Category           *string `json:"category,omitempty"`
	ShareWithPhysician *bool   `json:"share_with_physician,omitempty"`
}

// UpdateRequest is the PATCH body; nil fields are left unchanged.
type UpdateRequest struct {
	QuestionText       *string `json:"question_text,omitempty"`
	Category           *string `json:"category,omitempty"`
	ShareWithPhysician *bool   `json:"share_with_physician,omitempty"`
	IsAnswered         *bool   `json:"is_answered,omitempty"`
}
