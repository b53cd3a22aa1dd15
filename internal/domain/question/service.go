package question

import (
	"context"
	"errors"
	"strings"

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

// Create stores a new question for the patient. Omitted fields take their
// defaults: not shared, not answered, category "other".
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req CreateRequest) (*Question, error) {
	if strings.TrimSpace(req.QuestionText) == "" {
		return nil, fault.Validation("question_text is required")
	}

	q := &Question{
		PatientUUID:  patientID,
		QuestionText: req.QuestionText,
		Category:     DefaultCategory,
	}
	if req.Category != nil && *req.Category != "" {
		q.Category = *req.Category
	}
	if req.ShareWithPhysician != nil {
		q.ShareWithPhysician = *req.ShareWithPhysician
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fault.Internal(err)
	}
	return q, nil
}

func (s *Service) Get(ctx context.Context, patientID, id uuid.UUID) (*Question, error) {
	q, err := s.repo.GetByID(ctx, patientID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("question")
		}
		return nil, fault.Internal(err)
	}
	return q, nil
}

func (s *Service) List(ctx context.Context, patientID uuid.UUID, sharedOnly bool, limit, offset int) ([]*Question, int, error) {
	items, total, err := s.repo.List(ctx, patientID, sharedOnly, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

// Update applies a partial update. A deleted or unknown question is a 404;
// question_text, when present, must be non-empty.
func (s *Service) Update(ctx context.Context, patientID, id uuid.UUID, req UpdateRequest) (*Question, error) {
	if req.QuestionText != nil && strings.TrimSpace(*req.QuestionText) == "" {
		return nil, fault.Validation("question_text must not be empty")
	}

	q, err := s.Get(ctx, patientID, id)
	if err != nil {
		return nil, err
	}

	if req.QuestionText != nil {
		q.QuestionText = *req.QuestionText
	}
	if req.Category != nil {
		q.Category = *req.Category
	}
	if req.ShareWithPhysician != nil {
		q.ShareWithPhysician = *req.ShareWithPhysician
	}
	if req.IsAnswered != nil {
		q.IsAnswered = *req.IsAnswered
	}

	if err := s.repo.Update(ctx, q); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("question")
		}
		return nil, fault.Internal(err)
	}
	return q, nil
}

// Delete soft-deletes the question. Deleting an already-deleted question
// succeeds again; only an id that never existed is a 404.
func (s *Service) Delete(ctx context.Context, patientID, id uuid.UUID) error {
	matched, err := s.repo.SoftDelete(ctx, patientID, id)
	if err != nil {
		return fault.Internal(err)
	}
	if !matched {
		return fault.NotFound("question")
	}
	return nil
}

// ListShared returns the physician-visible subset for a patient. Used by the
// doctor API's per-patient view.
func (s *Service) ListShared(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Question, int, error) {
	return s.List(ctx, patientID, true, limit, offset)
}

// MarkAnswered flags a shared question answered on behalf of the physician.
// Questions not shared with the physician are invisible here, hence 404.
func (s *Service) MarkAnswered(ctx context.Context, patientID, id uuid.UUID) (*Question, error) {
	q, err := s.repo.GetShared(ctx, patientID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("question")
		}
		return nil, fault.Internal(err)
	}

	q.IsAnswered = true
	if err := s.repo.Update(ctx, q); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("question")
		}
		return nil, fault.Internal(err)
	}
	return q, nil
}
