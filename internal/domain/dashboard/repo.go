package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository reads the physician-scoped aggregates. now anchors the diary and
// chemo windows so callers (and tests) control the clock.
type Repository interface {
	Summary(ctx context.Context, physicianID uuid.UUID, now time.Time) (*Summary, error)
	PatientRollups(ctx context.Context, physicianID uuid.UUID, now time.Time, limit, offset int) ([]*PatientRollup, int, error)
}
