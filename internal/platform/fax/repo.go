package fax

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists fax records in the doctor database.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	Update(ctx context.Context, r *Record) error
	List(ctx context.Context, direction string, limit, offset int) ([]*Record, int, error)
}
