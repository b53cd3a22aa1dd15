package chat

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

// ── Conversations ──

type conversationRepoPG struct{ pool *pgxpool.Pool }

// NewConversationRepoPG returns a ConversationRepository backed by the
// patient database pool.
func NewConversationRepoPG(pool *pgxpool.Pool) ConversationRepository {
	return &conversationRepoPG{pool: pool}
}

const conversationCols = `id, patient_uuid, conversation_state, engine_state,
	started_at, completed_at, created_at, updated_at`

func scanConversation(row pgx.Row) (*Conversation, error) {
	var c Conversation
	err := row.Scan(&c.ID, &c.PatientUUID, &c.ConversationState, &c.EngineState,
		&c.StartedAt, &c.CompletedAt, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *conversationRepoPG) Create(ctx context.Context, c *Conversation) error {
	c.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO conversations (id, patient_uuid, conversation_state, engine_state, started_at)
		VALUES ($1,$2,$3,$4,NOW())
		RETURNING started_at, created_at, updated_at`,
		c.ID, c.PatientUUID, c.ConversationState, c.EngineState).
		Scan(&c.StartedAt, &c.CreatedAt, &c.UpdatedAt)
}

func (r *conversationRepoPG) GetByID(ctx context.Context, patientID, id uuid.UUID) (*Conversation, error) {
	return scanConversation(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+conversationCols+` FROM conversations
		WHERE id = $1 AND patient_uuid = $2`,
		id, patientID))
}

func (r *conversationRepoPG) Update(ctx context.Context, c *Conversation) error {
	return conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE conversations
		SET conversation_state=$3, engine_state=$4, completed_at=$5, updated_at=NOW()
		WHERE id = $1 AND patient_uuid = $2
		RETURNING updated_at`,
		c.ID, c.PatientUUID, c.ConversationState, c.EngineState, c.CompletedAt).
		Scan(&c.UpdatedAt)
}

// Delete removes the conversation row; messages go with it via the cascading
// foreign key.
func (r *conversationRepoPG) Delete(ctx context.Context, patientID, id uuid.UUID) (bool, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		DELETE FROM conversations WHERE id = $1 AND patient_uuid = $2`,
		id, patientID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *conversationRepoPG) List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Conversation, int, error) {
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM conversations WHERE patient_uuid = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+conversationCols+` FROM conversations
		WHERE patient_uuid = $1
		ORDER BY started_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

// ── Messages ──

type messageRepoPG struct{ pool *pgxpool.Pool }

// NewMessageRepoPG returns a MessageRepository backed by the patient
// database pool.
func NewMessageRepoPG(pool *pgxpool.Pool) MessageRepository {
	return &messageRepoPG{pool: pool}
}

const messageCols = `id, conversation_id, sender, body, sequence, created_at`

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Body, &m.Sequence, &m.CreatedAt)
	return &m, err
}

// Append inserts the message with the next sequence for its conversation,
// computed inside the statement so concurrent appends cannot reuse a number.
func (r *messageRepoPG) Append(ctx context.Context, m *Message) error {
	m.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO messages (id, conversation_id, sender, body, sequence)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(sequence), 0) + 1 FROM messages WHERE conversation_id = $2))
		RETURNING sequence, created_at`,
		m.ID, m.ConversationID, m.Sender, m.Body).
		Scan(&m.Sequence, &m.CreatedAt)
}

func (r *messageRepoPG) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*Message, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+messageCols+` FROM messages
		WHERE conversation_id = $1
		ORDER BY sequence ASC`,
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// ── Symptom sessions ──

type sessionRepoPG struct{ pool *pgxpool.Pool }

// NewSessionRepoPG returns a SessionRepository backed by the patient
// database pool.
func NewSessionRepoPG(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepoPG{pool: pool}
}

const sessionCols = `id, patient_uuid, conversation_id, flagged_symptoms, completed_at, created_at`

func scanSession(row pgx.Row) (*SymptomSession, error) {
	var s SymptomSession
	err := row.Scan(&s.ID, &s.PatientUUID, &s.ConversationID, &s.FlaggedSymptoms,
		&s.CompletedAt, &s.CreatedAt)
	return &s, err
}

func (r *sessionRepoPG) Create(ctx context.Context, s *SymptomSession) error {
	s.ID = uuid.New()
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO symptom_sessions (id, patient_uuid, conversation_id, flagged_symptoms, completed_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		s.ID, s.PatientUUID, s.ConversationID, s.FlaggedSymptoms, s.CompletedAt).
		Scan(&s.CreatedAt)
}

func (r *sessionRepoPG) GetByID(ctx context.Context, patientID, id uuid.UUID) (*SymptomSession, error) {
	return scanSession(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+sessionCols+` FROM symptom_sessions
		WHERE id = $1 AND patient_uuid = $2`,
		id, patientID))
}
