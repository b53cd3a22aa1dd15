package onboarding

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists onboarding statuses, keyed one row per patient.
type Repository interface {
	Create(ctx context.Context, s *Status) error
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*Status, error)
	Update(ctx context.Context, s *Status) error
}
