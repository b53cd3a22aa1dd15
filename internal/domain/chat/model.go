// Package chat persists symptom-checker conversations and their messages.
// The rule engine that drives the conversation lives outside this codebase;
// its state rides along as an opaque JSON blob. Completing a conversation
// records a symptom session that education delivery later consumes.
package chat

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	StateActive    = "active"
	StateCompleted = "completed"
	StateAbandoned = "abandoned"
)

const (
	SenderPatient = "patient"
	SenderSystem  = "system"
)

// Conversation maps to the conversations table.
type Conversation struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	PatientUUID       uuid.UUID       `db:"patient_uuid" json:"patient_uuid"`
	ConversationState string          `db:"conversation_state" json:"conversation_state"`
	EngineState       json.RawMessage `db:"engine_state" json:"engine_state"`
	StartedAt         time.Time       `db:"started_at" json:"started_at"`
	CompletedAt       *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// Message maps to the messages table. Sequence is assigned server-side and
// is monotonic per conversation.
type Message struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	Sender         string    `db:"sender" json:"sender"`
	Body           string    `db:"body" json:"body"`
	Sequence       int       `db:"sequence" json:"sequence"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// SymptomSession maps to the symptom_sessions table: the outcome of a
// completed checker conversation, listing the symptom codes it flagged.
type SymptomSession struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientUUID     uuid.UUID  `db:"patient_uuid" json:"patient_uuid"`
	ConversationID  *uuid.UUID `db:"conversation_id" json:"conversation_id,omitempty"`
	FlaggedSymptoms []string   `db:"flagged_symptoms" json:"flagged_symptoms"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// ConversationDetail is a conversation with its messages in sequence order.
type ConversationDetail struct {
	Conversation
	Messages []*Message `json:"messages"`
}

// UpdateRequest is the conversation PATCH body. FlaggedSymptoms only applies
// when the update completes the conversation.
type UpdateRequest struct {
	ConversationState *string         `json:"conversation_state,omitempty"`
	EngineState       json.RawMessage `json:"engine_state,omitempty"`
	FlaggedSymptoms   []string        `json:"flagged_symptoms,omitempty"`
}

// AppendMessageRequest is the message POST body.
type AppendMessageRequest struct {
	Sender string `json:"sender"`
	Body   string `json:"body"`
}
