// Package patient holds the patient profile and the patient-physician
// association rows that gate every physician view: a physician may read a
// patient's data only while an active association links them.
package patient

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for the date of birth.
const DateLayout = "2006-01-02"

// Patient maps to the patient_info table.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	AuthSubject string     `db:"auth_subject" json:"-"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Email       string     `db:"email" json:"email"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	CancerType  *string    `db:"cancer_type" json:"cancer_type,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Association maps to the patient_physician_associations table.
type Association struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientUUID   uuid.UUID `db:"patient_uuid" json:"patient_uuid"`
	PhysicianUUID uuid.UUID `db:"physician_uuid" json:"physician_uuid"`
	ClinicUUID    uuid.UUID `db:"clinic_uuid" json:"clinic_uuid"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// RegistrationRequest is the public registration body. The verified token
// subject becomes the patient's auth_subject; the physician and clinic UUIDs
// come from the registration handout the clinic gives the patient.
type RegistrationRequest struct {
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	DateOfBirth   *string   `json:"date_of_birth,omitempty"`
	CancerType    *string   `json:"cancer_type,omitempty"`
	PhysicianUUID uuid.UUID `json:"physician_uuid"`
	ClinicUUID    uuid.UUID `json:"clinic_uuid"`
}
