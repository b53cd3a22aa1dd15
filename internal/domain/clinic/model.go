// Package clinic manages the clinic directory of the doctor portal. Clinic
// rows anchor staff membership and supply the fax number used for outbound
// care-team documents.
package clinic

import (
	"time"

	"github.com/google/uuid"
)

// Clinic maps to the clinics table.
type Clinic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	FaxNumber *string   `db:"fax_number" json:"fax_number,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	Name      string  `json:"name"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	FaxNumber *string `json:"fax_number,omitempty"`
}

type UpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	FaxNumber *string `json:"fax_number,omitempty"`
}
