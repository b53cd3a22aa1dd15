package chemo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oncolife/oncolife/internal/platform/fault"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fault.Validation("dates must use %s", DateLayout)
	}
	return d, nil
}

func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req CreateRequest) (*ChemoDate, error) {
	if req.TreatmentDate == "" {
		return nil, fault.Validation("treatment_date is required")
	}
	date, err := parseDate(req.TreatmentDate)
	if err != nil {
		return nil, err
	}
	if req.CycleNumber != nil && *req.CycleNumber < 1 {
		return nil, fault.Validation("cycle_number must be positive")
	}

	cd := &ChemoDate{
		PatientUUID:   patientID,
		TreatmentDate: date,
		Regimen:       req.Regimen,
		CycleNumber:   req.CycleNumber,
		Status:        StatusScheduled,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, cd); err != nil {
		return nil, fault.Internal(err)
	}
	return cd, nil
}

func (s *Service) Get(ctx context.Context, patientID, id uuid.UUID) (*ChemoDate, error) {
	cd, err := s.repo.GetByID(ctx, patientID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("chemo date")
		}
		return nil, fault.Internal(err)
	}
	return cd, nil
}

// List returns the patient's chemo dates; after, when given, keeps only
// treatments on or after that day (upcoming view).
func (s *Service) List(ctx context.Context, patientID uuid.UUID, after string, limit, offset int) ([]*ChemoDate, int, error) {
	var afterDate *time.Time
	if after != "" {
		d, err := parseDate(after)
		if err != nil {
			return nil, 0, err
		}
		afterDate = &d
	}

	items, total, err := s.repo.List(ctx, patientID, afterDate, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

// Update applies a partial update. The only legal status change is scheduled
// to completed or cancelled; completed and cancelled are terminal.
func (s *Service) Update(ctx context.Context, patientID, id uuid.UUID, req UpdateRequest) (*ChemoDate, error) {
	cd, err := s.Get(ctx, patientID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != cd.Status {
		if cd.Status != StatusScheduled {
			return nil, fault.Validation("a %s treatment cannot change status", cd.Status)
		}
		if *req.Status != StatusCompleted && *req.Status != StatusCancelled {
			return nil, fault.Validation("status must move to %s or %s", StatusCompleted, StatusCancelled)
		}
		cd.Status = *req.Status
	}

	if req.TreatmentDate != nil {
		date, err := parseDate(*req.TreatmentDate)
		if err != nil {
			return nil, err
		}
		cd.TreatmentDate = date
	}
	if req.Regimen != nil {
		cd.Regimen = req.Regimen
	}
	if req.CycleNumber != nil {
		if *req.CycleNumber < 1 {
			return nil, fault.Validation("cycle_number must be positive")
		}
		cd.CycleNumber = req.CycleNumber
	}
	if req.Notes != nil {
		cd.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, cd); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("chemo date")
		}
		return nil, fault.Internal(err)
	}
	return cd, nil
}

func (s *Service) Delete(ctx context.Context, patientID, id uuid.UUID) error {
	matched, err := s.repo.SoftDelete(ctx, patientID, id)
	if err != nil {
		return fault.Internal(err)
	}
	if !matched {
		return fault.NotFound("chemo date")
	}
	return nil
}

// ListForPatient is the doctor API's read-only view over a patient's schedule.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ChemoDate, int, error) {
	return s.List(ctx, patientID, "", limit, offset)
}
