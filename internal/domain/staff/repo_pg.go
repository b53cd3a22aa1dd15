package staff

import (
	"context"
	"fmt"

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

// NewRepoPG returns a Repository backed by the doctor database pool.
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

const staffCols = `id, clinic_id, auth_subject, first_name, last_name, email,
	role, npi, created_at, updated_at`

func scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff
	err := row.Scan(&s.ID, &s.ClinicID, &s.AuthSubject, &s.FirstName, &s.LastName, &s.Email,
		&s.Role, &s.NPI, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *Staff) error {
	s.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO staff (id, clinic_id, auth_subject, first_name, last_name, email, role, npi)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		s.ID, s.ClinicID, s.AuthSubject, s.FirstName, s.LastName, s.Email, s.Role, s.NPI).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return scanStaff(r.conn(ctx).QueryRow(ctx, `
		SELECT `+staffCols+` FROM staff
		WHERE id = $1 AND `+db.NotDeleted(""),
		id))
}

func (r *repoPG) GetBySubject(ctx context.Context, subject string) (*Staff, error) {
	return scanStaff(r.conn(ctx).QueryRow(ctx, `
		SELECT `+staffCols+` FROM staff
		WHERE auth_subject = $1 AND `+db.NotDeleted(""),
		subject))
}

func (r *repoPG) Update(ctx context.Context, s *Staff) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE staff
		SET clinic_id = $2, first_name = $3, last_name = $4, email = $5,
			role = $6, npi = $7, updated_at = NOW()
		WHERE id = $1 AND `+db.NotDeleted("")+`
		RETURNING updated_at`,
		s.ID, s.ClinicID, s.FirstName, s.LastName, s.Email, s.Role, s.NPI).
		Scan(&s.UpdatedAt)
}

func (r *repoPG) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND `+db.NotDeleted(""),
		id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Staff, int, error) {
	where := db.NotDeleted("")
	args := []interface{}{}
	if filter.ClinicID != nil {
		args = append(args, *filter.ClinicID)
		where += fmt.Sprintf(" AND clinic_id = $%d", len(args))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where += fmt.Sprintf(" AND role = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM staff WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(`
		SELECT `+staffCols+` FROM staff
		WHERE `+where+`
		ORDER BY created_at ASC, id ASC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}
