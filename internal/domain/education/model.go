// Package education manages the symptom catalog, the clinician-authored
// education documents, and the assembly of education content for a completed
// symptom-checker session. Documents live in the doctor database; delivery
// audit rows live in the patient database.
package education

import (
	"time"

	"github.com/google/uuid"
)

// Document statuses. Approved documents are content-frozen: only the
// is_active visibility toggle may change, and a content revision is a new
// row with a bumped version.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
)

// Disclaimer closes every assembled delivery.
const Disclaimer = "This information is for education only and does not replace " +
	"medical advice. If symptoms are severe or worsening, contact your care team " +
	"or call 911."

// CareTeamHandout is the standing reference appended to every delivery.
const CareTeamHandout = "For more information, see the care-team handout " +
	"\"Managing Symptoms at Home\" provided by your clinic."

// Symptom maps to the symptoms table: the clinician-curated catalog the
// checker flags against.
type Symptom struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Document maps to the education_documents table.
type Document struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	SymptomCode string     `db:"symptom_code" json:"symptom_code"`
	Title       string     `db:"title" json:"title"`
	Summary     string     `db:"summary" json:"summary"`
	StorageKey  *string    `db:"storage_key" json:"-"`
	Status      string     `db:"status" json:"status"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	Version     int        `db:"version" json:"version"`
	CreatedBy   *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// HasPDF reports whether a PDF has been uploaded for the document.
func (d *Document) HasPDF() bool {
	return d.StorageKey != nil && *d.StorageKey != ""
}

// Delivery maps to the education_deliveries audit table.
type Delivery struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	SessionID   uuid.UUID   `db:"session_id" json:"session_id"`
	PatientUUID uuid.UUID   `db:"patient_uuid" json:"patient_uuid"`
	DocumentIDs []uuid.UUID `db:"document_ids" json:"document_ids"`
	DeliveredAt time.Time   `db:"delivered_at" json:"delivered_at"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// DeliveryRequest names the completed symptom session to assemble for.
type DeliveryRequest struct {
	SessionID uuid.UUID `json:"session_id"`
}

// DeliveryResponse is the assembled education content.
type DeliveryResponse struct {
	DeliveryID  uuid.UUID   `json:"delivery_id"`
	SessionID   uuid.UUID   `json:"session_id"`
	Content     string      `json:"content"`
	Documents   []*Document `json:"documents"`
	DeliveredAt time.Time   `json:"delivered_at"`
}

type CreateDocumentRequest struct {
	SymptomCode string `json:"symptom_code"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
}

// UpdateDocumentRequest patches a document. Content fields are accepted only
// while the document is a draft.
type UpdateDocumentRequest struct {
	Title    *string `json:"title,omitempty"`
	Summary  *string `json:"summary,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type CreateSymptomRequest struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

type UpdateSymptomRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	SymptomCode string
	// VisibleOnly restricts to approved, active documents (the patient view).
	VisibleOnly bool
}
