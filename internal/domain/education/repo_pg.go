package education

import (
	"context"
	"encoding/json"
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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

// ── Documents (doctor database) ──

type documentRepoPG struct{ pool *pgxpool.Pool }

func NewDocumentRepoPG(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepoPG{pool: pool}
}

const documentCols = `id, symptom_code, title, summary, storage_key, status,
	is_active, version, created_by, created_at, updated_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.SymptomCode, &d.Title, &d.Summary, &d.StorageKey, &d.Status,
		&d.IsActive, &d.Version, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *documentRepoPG) Create(ctx context.Context, d *Document) error {
	d.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO education_documents (id, symptom_code, title, summary, storage_key,
			status, is_active, version, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		d.ID, d.SymptomCode, d.Title, d.Summary, d.StorageKey,
		d.Status, d.IsActive, d.Version, d.CreatedBy).
		Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *documentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	return scanDocument(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+documentCols+` FROM education_documents
		WHERE id = $1`,
		id))
}

func (r *documentRepoPG) Update(ctx context.Context, d *Document) error {
	return conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE education_documents
		SET symptom_code = $2, title = $3, summary = $4, storage_key = $5,
			status = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		d.ID, d.SymptomCode, d.Title, d.Summary, d.StorageKey, d.Status, d.IsActive).
		Scan(&d.UpdatedAt)
}

func (r *documentRepoPG) List(ctx context.Context, filter DocumentFilter, limit, offset int) ([]*Document, int, error) {
	where := "TRUE"
	args := []interface{}{}
	if filter.SymptomCode != "" {
		args = append(args, filter.SymptomCode)
		where += fmt.Sprintf(" AND symptom_code = $%d", len(args))
	}
	if filter.VisibleOnly {
		where += " AND status = 'approved' AND is_active = TRUE"
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM education_documents WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := conn(ctx, r.pool).Query(ctx, fmt.Sprintf(`
		SELECT `+documentCols+` FROM education_documents
		WHERE `+where+`
		ORDER BY created_at ASC, id ASC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *documentRepoPG) ListVisibleBySymptom(ctx context.Context, code string) ([]*Document, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+documentCols+` FROM education_documents
		WHERE symptom_code = $1 AND status = 'approved' AND is_active = TRUE
		ORDER BY created_at ASC, id ASC`,
		code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *documentRepoPG) LatestVersion(ctx context.Context, symptomCode, title string) (int, error) {
	var version int
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT COALESCE(MAX(version), 0) FROM education_documents
		WHERE symptom_code = $1 AND title = $2`,
		symptomCode, title).Scan(&version)
	return version, err
}

// ── Symptom catalog (doctor database) ──

type symptomRepoPG struct{ pool *pgxpool.Pool }

func NewSymptomRepoPG(pool *pgxpool.Pool) SymptomRepository {
	return &symptomRepoPG{pool: pool}
}

const symptomCols = `id, code, display_name, description, is_active, created_at, updated_at`

func scanSymptom(row pgx.Row) (*Symptom, error) {
	var s Symptom
	err := row.Scan(&s.ID, &s.Code, &s.DisplayName, &s.Description, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *symptomRepoPG) Create(ctx context.Context, s *Symptom) error {
	s.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO symptoms (id, code, display_name, description, is_active)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		s.ID, s.Code, s.DisplayName, s.Description, s.IsActive).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *symptomRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Symptom, error) {
	return scanSymptom(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+symptomCols+` FROM symptoms WHERE id = $1`,
		id))
}

func (r *symptomRepoPG) Update(ctx context.Context, s *Symptom) error {
	return conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE symptoms
		SET display_name = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		s.ID, s.DisplayName, s.Description, s.IsActive).
		Scan(&s.UpdatedAt)
}

func (r *symptomRepoPG) List(ctx context.Context, limit, offset int) ([]*Symptom, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM symptoms`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+symptomCols+` FROM symptoms
		ORDER BY code ASC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Symptom
	for rows.Next() {
		s, err := scanSymptom(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

// ── Delivery audit (patient database) ──

type deliveryRepoPG struct{ pool *pgxpool.Pool }

func NewDeliveryRepoPG(pool *pgxpool.Pool) DeliveryRepository {
	return &deliveryRepoPG{pool: pool}
}

func (r *deliveryRepoPG) Create(ctx context.Context, d *Delivery) error {
	d.ID = uuid.New()
	docIDs, err := json.Marshal(d.DocumentIDs)
	if err != nil {
		return err
	}
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO education_deliveries (id, session_id, patient_uuid, document_ids, delivered_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		d.ID, d.SessionID, d.PatientUUID, docIDs, d.DeliveredAt).
		Scan(&d.CreatedAt)
}

func (r *deliveryRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Delivery, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM education_deliveries WHERE patient_uuid = $1`,
		patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, session_id, patient_uuid, document_ids, delivered_at, created_at
		FROM education_deliveries
		WHERE patient_uuid = $1
		ORDER BY delivered_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Delivery
	for rows.Next() {
		var d Delivery
		var docIDs []byte
		if err := rows.Scan(&d.ID, &d.SessionID, &d.PatientUUID, &docIDs, &d.DeliveredAt, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(docIDs, &d.DocumentIDs); err != nil {
			return nil, 0, err
		}
		items = append(items, &d)
	}
	return items, total, rows.Err()
}
