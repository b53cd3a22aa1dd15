// Package dashboard aggregates the physician's associated patients into
// summary counts, per-patient activity rollups, and an xlsx export. All reads
// run against the patient database scoped by the caller's association rows.
package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// Aggregation windows for the summary counts.
const (
	DiaryWindow = 7 * 24 * time.Hour
	ChemoWindow = 14 * 24 * time.Hour
)

// Summary is the headline counts for the physician's panel.
type Summary struct {
	AssociatedPatients int `json:"associated_patients"`
	UnansweredShared   int `json:"unanswered_shared_questions"`
	RecentDiaryEntries int `json:"recent_diary_entries"`
	UpcomingChemoDates int `json:"upcoming_chemo_dates"`
}

// PatientRollup is one roster row with recent-activity fields.
type PatientRollup struct {
	PatientUUID        uuid.UUID  `json:"patient_uuid"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	CancerType         *string    `json:"cancer_type,omitempty"`
	LastDiaryEntry     *time.Time `json:"last_diary_entry,omitempty"`
	NextChemoDate      *time.Time `json:"next_chemo_date,omitempty"`
	OpenSharedQuestions int       `json:"open_shared_questions"`
}
