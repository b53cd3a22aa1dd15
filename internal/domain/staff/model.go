// Package staff manages the clinic workforce of the doctor portal. A staff
// row is the portal-side identity: its id is the physician_uuid stored in
// patient-physician associations, and its auth_subject links the row to the
// identity-provider account.
package staff

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles. The admin role gates directory writes and patient deletes.
const (
	RolePhysician = "physician"
	RoleNurse     = "nurse"
	RoleAdmin     = "admin"
)

// Staff maps to the staff table.
type Staff struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	AuthSubject string    `db:"auth_subject" json:"-"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Email       string    `db:"email" json:"email"`
	Role        string    `db:"role" json:"role"`
	NPI         *string   `db:"npi" json:"npi,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	ClinicID    uuid.UUID `json:"clinic_id"`
	AuthSubject string    `json:"auth_subject"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	NPI         *string   `json:"npi,omitempty"`
}

type UpdateRequest struct {
	ClinicID  *uuid.UUID `json:"clinic_id,omitempty"`
	FirstName *string    `json:"first_name,omitempty"`
	LastName  *string    `json:"last_name,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Role      *string    `json:"role,omitempty"`
	NPI       *string    `json:"npi,omitempty"`
}

// ListFilter narrows the staff listing.
type ListFilter struct {
	ClinicID *uuid.UUID
	Role     string
}
