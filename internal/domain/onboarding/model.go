// Package onboarding tracks each patient's setup progress: profile, first
// check-in, and education viewing. The row is created lazily on first read
// and completed_at is stamped once when every step is done.
package onboarding

import (
	"time"

	"github.com/google/uuid"
)

// Status maps to the onboarding_statuses table; one row per patient.
type Status struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	PatientUUID           uuid.UUID  `db:"patient_uuid" json:"patient_uuid"`
	ProfileCompleted      bool       `db:"profile_completed" json:"profile_completed"`
	FirstCheckinCompleted bool       `db:"first_checkin_completed" json:"first_checkin_completed"`
	EducationViewed       bool       `db:"education_viewed" json:"education_viewed"`
	CompletedAt           *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

// Done reports whether every onboarding step is complete.
func (s *Status) Done() bool {
	return s.ProfileCompleted && s.FirstCheckinCompleted && s.EducationViewed
}

// UpdateRequest is the PUT body; nil fields are left unchanged.
type UpdateRequest struct {
	ProfileCompleted      *bool `json:"profile_completed,omitempty"`
	FirstCheckinCompleted *bool `json:"first_checkin_completed,omitempty"`
	EducationViewed       *bool `json:"education_viewed,omitempty"`
}
