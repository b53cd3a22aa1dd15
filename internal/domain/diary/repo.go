package diary

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists diary entries, owner-scoped with soft delete.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, patientID, id uuid.UUID) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	SoftDelete(ctx context.Context, patientID, id uuid.UUID) (bool, error)
	// List returns entries in creation order, optionally windowed by date.
	List(ctx context.Context, patientID uuid.UUID, filter ListFilter, limit, offset int) ([]*Entry, int, error)
}
