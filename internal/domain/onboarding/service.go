package onboarding

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

// Get returns the patient's onboarding status, creating the row with all
// steps unfinished on first read.
func (s *Service) Get(ctx context.Context, patientID uuid.UUID) (*Status, error) {
	status, err := s.repo.GetByPatient(ctx, patientID)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.Internal(err)
	}

	status = &Status{PatientUUID: patientID}
	if err := s.repo.Create(ctx, status); err != nil {
		return nil, fault.Internal(err)
	}
	return status, nil
}

// Update sets step flags. When every step turns true, completed_at is
// stamped; once stamped it never clears, even if a flag is later unset.
func (s *Service) Update(ctx context.Context, patientID uuid.UUID, req UpdateRequest) (*Status, error) {
	status, err := s.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if req.ProfileCompleted != nil {
		status.ProfileCompleted = *req.ProfileCompleted
	}
	if req.FirstCheckinCompleted != nil {
		status.FirstCheckinCompleted = *req.FirstCheckinCompleted
	}
	if req.EducationViewed != nil {
		status.EducationViewed = *req.EducationViewed
	}

	if status.CompletedAt == nil && status.Done() {
		now := time.Now().UTC()
		status.CompletedAt = &now
	}

	if err := s.repo.Update(ctx, status); err != nil {
		return nil, fault.Internal(err)
	}
	return status, nil
}
