package clinic

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

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Clinic, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fault.Validation("name is required")
	}
	c := &Clinic{
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		Phone:     req.Phone,
		FaxNumber: req.FaxNumber,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fault.Internal(err)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("clinic")
		}
		return nil, fault.Internal(err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Clinic, int, error) {
	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Clinic, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fault.Validation("name is required")
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.FaxNumber != nil {
		c.FaxNumber = req.FaxNumber
	}
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("clinic")
		}
		return nil, fault.Internal(err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	matched, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return fault.Internal(err)
	}
	if !matched {
		return fault.NotFound("clinic")
	}
	return nil
}
