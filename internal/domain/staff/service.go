package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oncolife/oncolife/internal/platform/db"
	"github.com/oncolife/oncolife/internal/platform/fault"
)

var validRoles = map[string]bool{
	RolePhysician: true,
	RoleNurse:     true,
	RoleAdmin:     true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Staff, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, fault.Validation("first_name and last_name are required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fault.Validation("email is required")
	}
	if strings.TrimSpace(req.AuthSubject) == "" {
		return nil, fault.Validation("auth_subject is required")
	}
	if req.ClinicID == uuid.Nil {
		return nil, fault.Validation("clinic_id is required")
	}
	if !validRoles[req.Role] {
		return nil, fault.Validation("role must be one of %s, %s, %s", RolePhysician, RoleNurse, RoleAdmin)
	}

	member := &Staff{
		ClinicID:    req.ClinicID,
		AuthSubject: strings.TrimSpace(req.AuthSubject),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		Role:        req.Role,
		NPI:         req.NPI,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fault.Conflict("a staff member with this subject or email already exists")
		}
		return nil, fault.Internal(err)
	}
	return member, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Staff, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("staff member")
		}
		return nil, fault.Internal(err)
	}
	return member, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Staff, int, error) {
	if filter.Role != "" && !validRoles[filter.Role] {
		return nil, 0, fault.Validation("role must be one of %s, %s, %s", RolePhysician, RoleNurse, RoleAdmin)
	}
	items, total, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Staff, error) {
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		return nil, fault.Validation("email is required")
	}
	if req.Role != nil && !validRoles[*req.Role] {
		return nil, fault.Validation("role must be one of %s, %s, %s", RolePhysician, RoleNurse, RoleAdmin)
	}

	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ClinicID != nil {
		member.ClinicID = *req.ClinicID
	}
	if req.FirstName != nil {
		member.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		member.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		member.Email = strings.TrimSpace(*req.Email)
	}
	if req.Role != nil {
		member.Role = *req.Role
	}
	if req.NPI != nil {
		member.NPI = req.NPI
	}

	if err := s.repo.Update(ctx, member); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("staff member")
		}
		if db.IsUniqueViolation(err) {
			return nil, fault.Conflict("a staff member with this email already exists")
		}
		return nil, fault.Internal(err)
	}
	return member, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	matched, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return fault.Internal(err)
	}
	if !matched {
		return fault.NotFound("staff member")
	}
	return nil
}

// ResolveSubject maps a token subject to the staff row id. It satisfies
// auth.PrincipalResolver for the doctor portal.
func (s *Service) ResolveSubject(ctx context.Context, subject string) (uuid.UUID, error) {
	member, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fault.NotFound("staff member")
		}
		return uuid.Nil, fault.Internal(err)
	}
	return member.ID, nil
}

// ProfileBySubject returns the staff profile for /auth/me.
func (s *Service) ProfileBySubject(ctx context.Context, subject string) (*Staff, error) {
	member, err := s.repo.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("staff member")
		}
		return nil, fault.Internal(err)
	}
	return member, nil
}
