package chemo

import (
	"context"
	"fmt"
	"time"

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

const chemoCols = `id, patient_uuid, treatment_date, regimen, cycle_number, status,
	notes, created_at, updated_at`

func scanChemoDate(row pgx.Row) (*ChemoDate, error) {
	var cd ChemoDate
	err := row.Scan(&cd.ID, &cd.PatientUUID, &cd.TreatmentDate, &cd.Regimen, &cd.CycleNumber,
		&cd.Status, &cd.Notes, &cd.CreatedAt, &cd.UpdatedAt)
	return &cd, err
}

func (r *repoPG) Create(ctx context.Context, cd *ChemoDate) error {
	cd.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO chemo_dates (id, patient_uuid, treatment_date, regimen, cycle_number, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		cd.ID, cd.PatientUUID, cd.TreatmentDate, cd.Regimen, cd.CycleNumber, cd.Status, cd.Notes).
		Scan(&cd.CreatedAt, &cd.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, patientID, id uuid.UUID) (*ChemoDate, error) {
	return scanChemoDate(r.conn(ctx).QueryRow(ctx, `
		SELECT `+chemoCols+` FROM chemo_dates
		WHERE id = $1 AND patient_uuid = $2 AND `+db.NotDeleted(""),
		id, patientID))
}

func (r *repoPG) Update(ctx context.Context, cd *ChemoDate) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE chemo_dates
		SET treatment_date=$3, regimen=$4, cycle_number=$5, status=$6, notes=$7, updated_at=NOW()
		WHERE id = $1 AND patient_uuid = $2 AND `+db.NotDeleted("")+`
		RETURNING updated_at`,
		cd.ID, cd.PatientUUID, cd.TreatmentDate, cd.Regimen, cd.CycleNumber, cd.Status, cd.Notes).
		Scan(&cd.UpdatedAt)
}

func (r *repoPG) SoftDelete(ctx context.Context, patientID, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE chemo_dates SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND patient_uuid = $2 AND `+db.NotDeleted(""),
		id, patientID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) List(ctx context.Context, patientID uuid.UUID, after *time.Time, limit, offset int) ([]*ChemoDate, int, error) {
	where := `patient_uuid = $1 AND ` + db.NotDeleted("")
	args := []interface{}{patientID}
	if after != nil {
		args = append(args, *after)
		where += fmt.Sprintf(` AND treatment_date >= $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM chemo_dates WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+chemoCols+` FROM chemo_dates
		WHERE `+where+`
		ORDER BY treatment_date ASC, id ASC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*ChemoDate
	for rows.Next() {
		cd, err := scanChemoDate(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cd)
	}
	return items, total, rows.Err()
}
