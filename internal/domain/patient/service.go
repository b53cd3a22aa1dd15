package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/oncolife/oncolife/internal/platform/db"
	"github.com/oncolife/oncolife/internal/platform/fault"
	"github.com/oncolife/oncolife/internal/platform/notify"
)

// Service owns registration, subject resolution, and the association checks
// that gate physician access to patient data.
type Service struct {
	patients Repository
	assocs   AssociationRepository
	pool     *pgxpool.Pool
	chatops  *notify.ChatOps
	logger   zerolog.Logger
}

// NewService wires the patient service. pool may be nil in tests; when set,
// registration writes the profile and association in one transaction.
func NewService(patients Repository, assocs AssociationRepository, pool *pgxpool.Pool, chatops *notify.ChatOps, logger zerolog.Logger) *Service {
	return &Service{patients: patients, assocs: assocs, pool: pool, chatops: chatops, logger: logger}
}

// Register creates the patient profile and the initial physician association
// for the verified token subject. A subject may register exactly once.
func (s *Service) Register(ctx context.Context, subject string, req RegistrationRequest) (*Patient, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, fault.Unauthenticated("no authenticated subject")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, fault.Validation("first_name and last_name are required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fault.Validation("email is required")
	}
	if req.PhysicianUUID == uuid.Nil || req.ClinicUUID == uuid.Nil {
		return nil, fault.Validation("physician_uuid and clinic_uuid are required")
	}

	var dob *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		parsed, err := time.Parse(DateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, fault.Validation("date_of_birth must use %s", DateLayout)
		}
		dob = &parsed
	}

	if _, err := s.patients.GetBySubject(ctx, subject); err == nil {
		return nil, fault.Conflict("this account is already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.Internal(err)
	}

	p := &Patient{
		AuthSubject: subject,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       req.Phone,
		DateOfBirth: dob,
		CancerType:  req.CancerType,
	}

	create := func(ctx context.Context) error {
		if err := s.patients.Create(ctx, p); err != nil {
			return err
		}
		return s.assocs.Create(ctx, &Association{
			PatientUUID:   p.ID,
			PhysicianUUID: req.PhysicianUUID,
			ClinicUUID:    req.ClinicUUID,
		})
	}

	var err error
	if s.pool != nil {
		err = db.RunInTx(ctx, s.pool, create)
	} else {
		err = create(ctx)
	}
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fault.Conflict("this account is already registered")
		}
		return nil, fault.Internal(err)
	}

	s.logger.Info().
		Str("patient_id", p.ID.String()).
		Str("physician_id", req.PhysicianUUID.String()).
		Msg("patient registered")
	if s.chatops != nil {
		s.chatops.Post(fmt.Sprintf("New patient registration: %s %s", p.FirstName, p.LastName))
	}
	return p, nil
}

// ResolveSubject maps a token subject to the patient's row id. It satisfies
// auth.PrincipalResolver for the patient portal.
func (s *Service) ResolveSubject(ctx context.Context, subject string) (uuid.UUID, error) {
	p, err := s.patients.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fault.NotFound("patient")
		}
		return uuid.Nil, fault.Internal(err)
	}
	return p.ID, nil
}

// Profile returns the patient's own profile.
func (s *Service) Profile(ctx context.Context, patientID uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("patient")
		}
		return nil, fault.Internal(err)
	}
	return p, nil
}

// Authorize verifies an active association between the physician and the
// patient. Physicians without one get a permission error, never the data.
func (s *Service) Authorize(ctx context.Context, physicianID, patientID uuid.UUID) error {
	ok, err := s.assocs.Exists(ctx, patientID, physicianID)
	if err != nil {
		return fault.Internal(err)
	}
	if !ok {
		return fault.PermissionDenied("no active association with this patient")
	}
	return nil
}

// Roster lists the patients associated with the physician.
func (s *Service) Roster(ctx context.Context, physicianID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	items, total, err := s.patients.ListByPhysician(ctx, physicianID, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

// GetForPhysician returns a patient's profile after the association check.
func (s *Service) GetForPhysician(ctx context.Context, physicianID, patientID uuid.UUID) (*Patient, error) {
	if err := s.Authorize(ctx, physicianID, patientID); err != nil {
		return nil, err
	}
	return s.Profile(ctx, patientID)
}

// Delete retires the patient profile and every association pointing at it.
// Repeated deletes succeed; the rows are already retired.
func (s *Service) Delete(ctx context.Context, patientID uuid.UUID) error {
	retire := func(ctx context.Context) error {
		matched, err := s.patients.SoftDelete(ctx, patientID)
		if err != nil {
			return err
		}
		if !matched {
			s.logger.Debug().Str("patient_id", patientID.String()).Msg("delete on already retired patient")
		}
		return s.assocs.SoftDeleteByPatient(ctx, patientID)
	}

	var err error
	if s.pool != nil {
		err = db.RunInTx(ctx, s.pool, retire)
	} else {
		err = retire(ctx)
	}
	if err != nil {
		return fault.Internal(err)
	}
	return nil
}
