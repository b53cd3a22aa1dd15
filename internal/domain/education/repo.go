package education

import (
	"context"

	"github.com/google/uuid"
)

// DocumentRepository persists education documents (doctor database).
type DocumentRepository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	Update(ctx context.Context, d *Document) error
	List(ctx context.Context, filter DocumentFilter, limit, offset int) ([]*Document, int, error)
	// ListVisibleBySymptom returns approved, active documents for one symptom
	// code in creation order.
	ListVisibleBySymptom(ctx context.Context, code string) ([]*Document, error)
	// LatestVersion returns the highest version among documents sharing the
	// symptom code and title, 0 when none exist.
	LatestVersion(ctx context.Context, symptomCode, title string) (int, error)
}

// SymptomRepository persists the symptom catalog (doctor database).
type SymptomRepository interface {
	Create(ctx context.Context, s *Symptom) error
	GetByID(ctx context.Context, id uuid.UUID) (*Symptom, error)
	Update(ctx context.Context, s *Symptom) error
	List(ctx context.Context, limit, offset int) ([]*Symptom, int, error)
}

// DeliveryRepository persists delivery audit rows (patient database).
type DeliveryRepository interface {
	Create(ctx context.Context, d *Delivery) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Delivery, int, error)
}
