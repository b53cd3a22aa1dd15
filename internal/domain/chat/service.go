package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oncolife/oncolife/internal/platform/db"
	"github.com/oncolife/oncolife/internal/platform/fault"
)

// appendRetries bounds how many times a message append is retried after a
// sequence collision with a concurrent writer.
const appendRetries = 3

type Service struct {
	conversations ConversationRepository
	messages      MessageRepository
	sessions      SessionRepository
}

func NewService(conversations ConversationRepository, messages MessageRepository, sessions SessionRepository) *Service {
	return &Service{
		conversations: conversations,
		messages:      messages,
		sessions:      sessions,
	}
}

// StartConversation opens a new active conversation with empty engine state.
func (s *Service) StartConversation(ctx context.Context, patientID uuid.UUID) (*Conversation, error) {
	c := &Conversation{
		PatientUUID:       patientID,
		ConversationState: StateActive,
		EngineState:       json.RawMessage(`{}`),
	}
	if err := s.conversations.Create(ctx, c); err != nil {
		return nil, fault.Internal(err)
	}
	return c, nil
}

func (s *Service) ListConversations(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Conversation, int, error) {
	items, total, err := s.conversations.List(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

// GetConversation returns the conversation with its messages in sequence
// order.
func (s *Service) GetConversation(ctx context.Context, patientID, id uuid.UUID) (*ConversationDetail, error) {
	c, err := s.conversations.GetByID(ctx, patientID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("conversation")
		}
		return nil, fault.Internal(err)
	}

	msgs, err := s.messages.ListByConversation(ctx, c.ID)
	if err != nil {
		return nil, fault.Internal(err)
	}
	if msgs == nil {
		msgs = []*Message{}
	}
	return &ConversationDetail{Conversation: *c, Messages: msgs}, nil
}

// UpdateConversation applies a state change and/or replaces the engine state
// blob. Completing stamps completed_at and records the symptom session from
// the flagged symptoms carried in the request.
func (s *Service) UpdateConversation(ctx context.Context, patientID, id uuid.UUID, req UpdateRequest) (*Conversation, error) {
	c, err := s.conversations.GetByID(ctx, patientID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("conversation")
		}
		return nil, fault.Internal(err)
	}

	completing := false
	if req.ConversationState != nil && *req.ConversationState != c.ConversationState {
		if c.ConversationState != StateActive {
			return nil, fault.Validation("a %s conversation cannot change state", c.ConversationState)
		}
		switch *req.ConversationState {
		case StateCompleted:
			completing = true
		case StateAbandoned:
		default:
			return nil, fault.Validation("state must move to %s or %s", StateCompleted, StateAbandoned)
		}
		c.ConversationState = *req.ConversationState
	}

	if len(req.EngineState) > 0 {
		if !json.Valid(req.EngineState) {
			return nil, fault.Validation("engine_state must be valid JSON")
		}
		c.EngineState = req.EngineState
	}

	if completing {
		now := time.Now().UTC()
		c.CompletedAt = &now
	}

	if err := s.conversations.Update(ctx, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("conversation")
		}
		return nil, fault.Internal(err)
	}

	if completing {
		flagged := req.FlaggedSymptoms
		if flagged == nil {
			flagged = []string{}
		}
		session := &SymptomSession{
			PatientUUID:     patientID,
			ConversationID:  &c.ID,
			FlaggedSymptoms: flagged,
			CompletedAt:     c.CompletedAt,
		}
		if err := s.sessions.Create(ctx, session); err != nil {
			return nil, fault.Internal(err)
		}
	}
	return c, nil
}

// AppendMessage adds a message to an active conversation; the repository
// assigns the sequence number.
func (s *Service) AppendMessage(ctx context.Context, patientID, conversationID uuid.UUID, req AppendMessageRequest) (*Message, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, fault.Validation("body is required")
	}
	if req.Sender != SenderPatient && req.Sender != SenderSystem {
		return nil, fault.Validation("sender must be %s or %s", SenderPatient, SenderSystem)
	}

	c, err := s.conversations.GetByID(ctx, patientID, conversationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("conversation")
		}
		return nil, fault.Internal(err)
	}
	if c.ConversationState != StateActive {
		return nil, fault.Validation("conversation is %s", c.ConversationState)
	}

	m := &Message{
		ConversationID: c.ID,
		Sender:         req.Sender,
		Body:           req.Body,
	}
	// Two racing appends can compute the same next sequence; the unique
	// index on (conversation_id, sequence) rejects the loser, so retry
	// with a freshly computed number before giving up.
	for attempt := 0; attempt < appendRetries; attempt++ {
		err := s.messages.Append(ctx, m)
		if err == nil {
			return m, nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, fault.Internal(err)
		}
	}
	return nil, fault.Conflict("conversation is receiving concurrent messages, retry")
}

// DeleteConversation removes the conversation and, through the database
// cascade, every message in it.
func (s *Service) DeleteConversation(ctx context.Context, patientID, id uuid.UUID) error {
	matched, err := s.conversations.Delete(ctx, patientID, id)
	if err != nil {
		return fault.Internal(err)
	}
	if !matched {
		return fault.NotFound("conversation")
	}
	return nil
}

// GetSession returns a symptom session for the patient. Education delivery
// uses this to find the flagged symptoms of a completed checker run.
func (s *Service) GetSession(ctx context.Context, patientID, id uuid.UUID) (*SymptomSession, error) {
	session, err := s.sessions.GetByID(ctx, patientID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("symptom session")
		}
		return nil, fault.Internal(err)
	}
	return session, nil
}
