package chemo

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists chemo dates, owner-scoped with soft delete.
type Repository interface {
	Create(ctx context.Context, cd *ChemoDate) error
	GetByID(ctx context.Context, patientID, id uuid.UUID) (*ChemoDate, error)
	Update(ctx context.Context, cd *ChemoDate) error
	SoftDelete(ctx context.Context, patientID, id uuid.UUID) (bool, error)
	// List returns dates in treatment-date order; after, when set, keeps only
	// treatments on or after that day.
	List(ctx context.Context, patientID uuid.UUID, after *time.Time, limit, offset int) ([]*ChemoDate, int, error)
}
