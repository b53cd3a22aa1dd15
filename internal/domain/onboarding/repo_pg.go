package onboarding

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oncolife/oncolife/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by the patient database pool.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const statusCols = `id, patient_uuid, profile_completed, first_checkin_completed,
	education_viewed, completed_at, created_at, updated_at`

func scanStatus(row pgx.Row) (*Status, error) {
	var s Status
	err := row.Scan(&s.ID, &s.PatientUUID, &s.ProfileCompleted, &s.FirstCheckinCompleted,
		&s.EducationViewed, &s.CompletedAt, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

// Create inserts the patient's row. The unique constraint on patient_uuid
// keeps concurrent first reads from producing duplicates; on conflict the
// existing row wins.
func (r *repoPG) Create(ctx context.Context, s *Status) error {
	s.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO onboarding_statuses (id, patient_uuid, profile_completed,
			first_checkin_completed, education_viewed)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (patient_uuid) DO UPDATE SET updated_at = onboarding_statuses.updated_at
		RETURNING id, created_at, updated_at`,
		s.ID, s.PatientUUID, s.ProfileCompleted, s.FirstCheckinCompleted, s.EducationViewed).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*Status, error) {
	return scanStatus(r.conn(ctx).QueryRow(ctx, `
		SELECT `+statusCols+` FROM onboarding_statuses WHERE patient_uuid = $1`,
		patientID))
}

func (r *repoPG) Update(ctx context.Context, s *Status) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE onboarding_statuses
		SET profile_completed=$2, first_checkin_completed=$3, education_viewed=$4,
			completed_at=$5, updated_at=NOW()
		WHERE patient_uuid = $1
		RETURNING updated_at`,
		s.PatientUUID, s.ProfileCompleted, s.FirstCheckinCompleted, s.EducationViewed,
		s.CompletedAt).Scan(&s.UpdatedAt)
}
