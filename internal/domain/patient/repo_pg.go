package patient

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

// ── Patients ──

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Repository backed by the patient database pool.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const patientCols = `id, auth_subject, first_name, last_name, email, phone,
	date_of_birth, cancer_type, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.AuthSubject, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.DateOfBirth, &p.CancerType, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient_info (id, auth_subject, first_name, last_name, email,
			phone, date_of_birth, cancer_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		p.ID, p.AuthSubject, p.FirstName, p.LastName, p.Email,
		p.Phone, p.DateOfBirth, p.CancerType).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+patientCols+` FROM patient_info
		WHERE id = $1 AND `+db.NotDeleted(""),
		id))
}

func (r *repoPG) GetBySubject(ctx context.Context, subject string) (*Patient, error) {
	return scanPatient(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+patientCols+` FROM patient_info
		WHERE auth_subject = $1 AND `+db.NotDeleted(""),
		subject))
}

func (r *repoPG) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE patient_info SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND `+db.NotDeleted(""),
		id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) ListByPhysician(ctx context.Context, physicianID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	where := `a.physician_uuid = $1 AND ` + db.NotDeleted("a") + ` AND ` + db.NotDeleted("p")

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT COUNT(*) FROM patient_info p
		JOIN patient_physician_associations a ON a.patient_uuid = p.id
		WHERE `+where, physicianID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT p.id, p.auth_subject, p.first_name, p.last_name, p.email, p.phone,
			p.date_of_birth, p.cancer_type, p.created_at, p.updated_at
		FROM patient_info p
		JOIN patient_physician_associations a ON a.patient_uuid = p.id
		WHERE `+where+`
		ORDER BY a.created_at ASC, p.id ASC
		LIMIT $2 OFFSET $3`,
		physicianID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// ── Associations ──

type associationRepoPG struct{ pool *pgxpool.Pool }

// NewAssociationRepoPG returns an AssociationRepository backed by the
// patient database pool.
func NewAssociationRepoPG(pool *pgxpool.Pool) AssociationRepository {
	return &associationRepoPG{pool: pool}
}

func (r *associationRepoPG) Create(ctx context.Context, a *Association) error {
	a.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patient_physician_associations (id, patient_uuid, physician_uuid, clinic_uuid)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientUUID, a.PhysicianUUID, a.ClinicUUID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *associationRepoPG) Exists(ctx context.Context, patientID, physicianID uuid.UUID) (bool, error) {
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM patient_physician_associations
			WHERE patient_uuid = $1 AND physician_uuid = $2 AND `+db.NotDeleted("")+`
		)`,
		patientID, physicianID).Scan(&exists)
	return exists, err
}

func (r *associationRepoPG) SoftDeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE patient_physician_associations SET is_deleted = TRUE, updated_at = NOW()
		WHERE patient_uuid = $1 AND `+db.NotDeleted(""),
		patientID)
	return err
}
