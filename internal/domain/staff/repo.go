package staff

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists staff members.
type Repository interface {
	Create(ctx context.Context, s *Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	GetBySubject(ctx context.Context, subject string) (*Staff, error)
	Update(ctx context.Context, s *Staff) error
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Staff, int, error)
}
