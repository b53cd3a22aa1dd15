package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists patient profiles.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetBySubject(ctx context.Context, subject string) (*Patient, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
	// ListByPhysician returns the profiles of patients actively associated
	// with the physician, in association order.
	ListByPhysician(ctx context.Context, physicianID uuid.UUID, limit, offset int) ([]*Patient, int, error)
}

// AssociationRepository persists the patient-physician links.
type AssociationRepository interface {
	Create(ctx context.Context, a *Association) error
	// Exists reports whether an active association links the pair.
	Exists(ctx context.Context, patientID, physicianID uuid.UUID) (bool, error)
	// SoftDeleteByPatient retires every association of a patient.
	SoftDeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
