package fax

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

const faxCols = `id, clinic_id, direction, provider_fax_id, to_number, from_number,
	status, pages, storage_key, error, created_at, updated_at`

func (r *repoPG) scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.ClinicID, &rec.Direction, &rec.ProviderFaxID, &rec.ToNumber,
		&rec.FromNumber, &rec.Status, &rec.Pages, &rec.StorageKey, &rec.Error,
		&rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO fax_records (id, clinic_id, direction, provider_fax_id, to_number,
			from_number, status, pages, storage_key, error)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rec.ID, rec.ClinicID, rec.Direction, rec.ProviderFaxID, rec.ToNumber,
		rec.FromNumber, rec.Status, rec.Pages, rec.StorageKey, rec.Error)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+faxCols+` FROM fax_records WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE fax_records SET provider_fax_id=$2, status=$3, pages=$4, storage_key=$5,
			error=$6, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.ProviderFaxID, rec.Status, rec.Pages, rec.StorageKey, rec.Error)
	return err
}

func (r *repoPG) List(ctx context.Context, direction string, limit, offset int) ([]*Record, int, error) {
	where := ``
	args := []interface{}{}
	if direction != "" {
		where = ` WHERE direction = $1`
		args = append(args, direction)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM fax_records`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT `+faxCols+` FROM fax_records%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, nil
}
