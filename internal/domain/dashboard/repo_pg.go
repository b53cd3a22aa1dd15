package dashboard

import (
	"context"
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

// panel selects the ids of the physician's actively associated patients.
const panel = `
	SELECT a.patient_uuid
	FROM patient_physician_associations a
	JOIN patient_info p ON p.id = a.patient_uuid
	WHERE a.physician_uuid = $1 AND a.is_deleted = FALSE AND p.is_deleted = FALSE`

func (r *repoPG) Summary(ctx context.Context, physicianID uuid.UUID, now time.Time) (*Summary, error) {
	var s Summary
	err := r.conn(ctx).QueryRow(ctx, `
		WITH panel AS (`+panel+`)
		SELECT
			(SELECT COUNT(*) FROM panel),
			(SELECT COUNT(*) FROM patient_questions q
				WHERE q.patient_uuid IN (SELECT patient_uuid FROM panel)
				AND q.share_with_physician = TRUE AND q.is_answered = FALSE
				AND q.is_deleted = FALSE),
			(SELECT COUNT(*) FROM diary_entries d
				WHERE d.patient_uuid IN (SELECT patient_uuid FROM panel)
				AND d.entry_date >= $2 AND d.is_deleted = FALSE),
			(SELECT COUNT(*) FROM chemo_dates c
				WHERE c.patient_uuid IN (SELECT patient_uuid FROM panel)
				AND c.treatment_date >= $3 AND c.treatment_date <= $4
				AND c.status = 'scheduled' AND c.is_deleted = FALSE)`,
		physicianID,
		now.Add(-DiaryWindow),
		now,
		now.Add(ChemoWindow)).
		Scan(&s.AssociatedPatients, &s.UnansweredShared, &s.RecentDiaryEntries, &s.UpcomingChemoDates)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) PatientRollups(ctx context.Context, physicianID uuid.UUID, now time.Time, limit, offset int) ([]*PatientRollup, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM (`+panel+`) panel`, physicianID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.first_name, p.last_name, p.cancer_type,
			(SELECT MAX(d.entry_date) FROM diary_entries d
				WHERE d.patient_uuid = p.id AND d.is_deleted = FALSE),
			(SELECT MIN(c.treatment_date) FROM chemo_dates c
				WHERE c.patient_uuid = p.id AND c.treatment_date >= $2
				AND c.status = 'scheduled' AND c.is_deleted = FALSE),
			(SELECT COUNT(*) FROM patient_questions q
				WHERE q.patient_uuid = p.id AND q.share_with_physician = TRUE
				AND q.is_answered = FALSE AND q.is_deleted = FALSE)
		FROM patient_info p
		JOIN patient_physician_associations a ON a.patient_uuid = p.id
		WHERE a.physician_uuid = $1 AND a.is_deleted = FALSE AND p.is_deleted = FALSE
		ORDER BY a.created_at ASC, p.id ASC
		LIMIT $3 OFFSET $4`,
		physicianID, now, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*PatientRollup
	for rows.Next() {
		var pr PatientRollup
		if err := rows.Scan(&pr.PatientUUID, &pr.FirstName, &pr.LastName, &pr.CancerType,
			&pr.LastDiaryEntry, &pr.NextChemoDate, &pr.OpenSharedQuestions); err != nil {
			return nil, 0, err
		}
		items = append(items, &pr)
	}
	return items, total, rows.Err()
}
