package diary

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

func validSeverity(s *int) bool {
	return s == nil || (*s >= MinSeverity && *s <= MaxSeverity)
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fault.Validation("dates must use %s", DateLayout)
	}
	return d, nil
}

func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req CreateRequest) (*Entry, error) {
	if req.EntryDate == "" {
		return nil, fault.Validation("entry_date is required")
	}
	date, err := parseDate(req.EntryDate)
	if err != nil {
		return nil, err
	}
	if !validSeverity(req.Severity) {
		return nil, fault.Validation("severity must be between %d and %d", MinSeverity, MaxSeverity)
	}

	e := &Entry{
		PatientUUID: patientID,
		EntryDate:   date,
		SymptomCode: req.SymptomCode,
		Severity:    req.Severity,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fault.Internal(err)
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, patientID, id uuid.UUID) (*Entry, error) {
	e, err := s.repo.GetByID(ctx, patientID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("diary entry")
		}
		return nil, fault.Internal(err)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, patientID uuid.UUID, from, to string, limit, offset int) ([]*Entry, int, error) {
	var filter ListFilter
	if from != "" {
		d, err := parseDate(from)
		if err != nil {
			return nil, 0, err
		}
		filter.From = &d
	}
	if to != "" {
		d, err := parseDate(to)
		if err != nil {
			return nil, 0, err
		}
		filter.To = &d
	}

	items, total, err := s.repo.List(ctx, patientID, filter, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, patientID, id uuid.UUID, req UpdateRequest) (*Entry, error) {
	if !validSeverity(req.Severity) {
		return nil, fault.Validation("severity must be between %d and %d", MinSeverity, MaxSeverity)
	}

	e, err := s.Get(ctx, patientID, id)
	if err != nil {
		return nil, err
	}

	if req.EntryDate != nil {
		date, err := parseDate(*req.EntryDate)
		if err != nil {
			return nil, err
		}
		e.EntryDate = date
	}
	if req.SymptomCode != nil {
		e.SymptomCode = req.SymptomCode
	}
	if req.Severity != nil {
		e.Severity = req.Severity
	}
	if req.Notes != nil {
		e.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("diary entry")
		}
		return nil, fault.Internal(err)
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, patientID, id uuid.UUID) error {
	matched, err := s.repo.SoftDelete(ctx, patientID, id)
	if err != nil {
		return fault.Internal(err)
	}
	if !matched {
		return fault.NotFound("diary entry")
	}
	return nil
}

// ListForPatient is the doctor API's read-only view over a patient's diary.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return s.List(ctx, patientID, "", "", limit, offset)
}
