package chat

import (
	"context"

	"github.com/google/uuid"
)

// ConversationRepository persists conversations. Delete is the one physical
// delete in the system; the database cascades it to messages.
type ConversationRepository interface {
	Create(ctx context.Context, c *Conversation) error
	GetByID(ctx context.Context, patientID, id uuid.UUID) (*Conversation, error)
	Update(ctx context.Context, c *Conversation) error
	Delete(ctx context.Context, patientID, id uuid.UUID) (bool, error)
	List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Conversation, int, error)
}

// MessageRepository persists conversation messages. Append assigns the next
// sequence number atomically within the insert.
type MessageRepository interface {
	Append(ctx context.Context, m *Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]*Message, error)
}

// SessionRepository persists symptom sessions written on completion.
type SessionRepository interface {
	Create(ctx context.Context, s *SymptomSession) error
	GetByID(ctx context.Context, patientID, id uuid.UUID) (*SymptomSession, error)
}
