package question

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists patient questions. Every read is scoped to the owning
// patient and filters soft-deleted rows; SoftDelete deliberately matches
// already-deleted rows so a repeated delete stays a no-op success.
type Repository interface {
	Create(ctx context.Context, q *Question) error
	GetByID(ctx context.Context, patientID, id uuid.UUID) (*Question, error)
	// GetShared fetches a question only when it is shared with the physician.
	GetShared(ctx context.Context, patientID, id uuid.UUID) (*Question, error)
	Update(ctx context.Context, q *Question) error
	// SoftDelete marks the row deleted. It reports false only when no row
	// with the id exists for the patient at all.
	SoftDelete(ctx context.Context, patientID, id uuid.UUID) (bool, error)
	// List returns the patient's questions in creation order. sharedOnly
	// restricts to share_with_physician = true.
	List(ctx context.Context, patientID uuid.UUID, sharedOnly bool, limit, offset int) ([]*Question, int, error)
}
