package question

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

const questionCols = `id, patient_uuid, question_text, share_with_physician,
	is_answered, category, created_at, updated_at`

func scanQuestion(row pgx.Row) (*Question, error) {
	var q Question
	err := row.Scan(&q.ID, &q.PatientUUID, &q.QuestionText, &q.ShareWithPhysician,
		&q.IsAnswered, &q.Category, &q.CreatedAt, &q.UpdatedAt)
	return &q, err
}

func (r *repoPG) Create(ctx context.Context, q *Question) error {
	q.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_questions (id, patient_uuid, question_text,
			share_with_physician, is_answered, category)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		q.ID, q.PatientUUID, q.QuestionText,
		q.ShareWithPhysician, q.IsAnswered, q.Category).
		Scan(&q.CreatedAt, &q.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, patientID, id uuid.UUID) (*Question, error) {
	return scanQuestion(r.conn(ctx).QueryRow(ctx, `
		SELECT `+questionCols+` FROM patient_questions
		WHERE id = $1 AND patient_uuid = $2 AND `+db.NotDeleted(""),
		id, patientID))
}

func (r *repoPG) GetShared(ctx context.Context, patientID, id uuid.UUID) (*Question, error) {
	return scanQuestion(r.conn(ctx).QueryRow(ctx, `
		SELECT `+questionCols+` FROM patient_questions
		WHERE id = $1 AND patient_uuid = $2 AND share_with_physician = TRUE AND `+db.NotDeleted(""),
		id, patientID))
}

func (r *repoPG) Update(ctx context.Context, q *Question) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE patient_questions
		SET question_text=$3, share_with_physician=$4, is_answered=$5,
			category=$6, updated_at=NOW()
		WHERE id = $1 AND patient_uuid = $2 AND `+db.NotDeleted("")+`
		RETURNING updated_at`,
		q.ID, q.PatientUUID, q.QuestionText, q.ShareWithPhysician, q.IsAnswered,
		q.Category).Scan(&q.UpdatedAt)
}

// SoftDelete matches on id alone so a second delete of the same row still
// reports success; only a genuinely unknown id yields no match.
func (r *repoPG) SoftDelete(ctx context.Context, patientID, id uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_questions SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND patient_uuid = $2`,
		id, patientID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) List(ctx context.Context, patientID uuid.UUID, sharedOnly bool, limit, offset int) ([]*Question, int, error) {
	where := `patient_uuid = $1 AND ` + db.NotDeleted("")
	if sharedOnly {
		where += ` AND share_with_physician = TRUE`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient_questions WHERE `+where, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+questionCols+` FROM patient_questions
		WHERE `+where+`
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, q)
	}
	return items, total, rows.Err()
}
