package diary

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

const entryCols = `id, patient_uuid, entry_date, symptom_code, severity, notes,
	created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.PatientUUID, &e.EntryDate, &e.SymptomCode, &e.Severity,
		&e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO diary_entries (id, patient_uuid, entry_date, symptom_code, severity, notes)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		e.ID, e.PatientUUID, e.EntryDate, e.SymptomCode, e.Severity, e.Notes).
		Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, patientID, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx, `
		SELECT `+entryCols+` FROM diary_entries
		WHERE id = $1 AND patient_uuid = $2 AND `+db.NotDeleted(""),
		id, patientID))
}

func (r *repoPG) Update(ctx context.Context, e *Entry) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE diary_entries
		SET entry_date=$3, symptom_code=$4, severity=$5, notes=$6, updated_at=NOW()
		WHERE id = $1 AND patient_uuid = $2 AND `+db.NotDeleted("")+`
		RETURNING updated_at`,
		e.ID, e.PatientUUID, e.EntryDate, e.SymptomCode, e.Severity, e.Notes).
		Scan(&e.UpdatedAt)
}

func (r *repoPG) SoftDelete(ctx context.Context, patientID, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE diary_entries SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND patient_uuid = $2 AND `+db.NotDeleted(""),
		id, patientID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) List(ctx context.Context, patientID uuid.UUID, filter ListFilter, limit, offset int) ([]*Entry, int, error) {
	where := `patient_uuid = $1 AND ` + db.NotDeleted("")
	args := []interface{}{patientID}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(` AND entry_date >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(` AND entry_date <= $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM diary_entries WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+entryCols+` FROM diary_entries
		WHERE `+where+`
		ORDER BY created_at ASC, id ASC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}
