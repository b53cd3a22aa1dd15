package fax

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/oncolife/oncolife/internal/platform/fault"
	"github.com/oncolife/oncolife/internal/platform/notify"
)

type Service struct {
	repo          Repository
	client        Client
	webhookSecret string
	chatops       *notify.ChatOps
	logger        zerolog.Logger
}

func NewService(repo Repository, client Client, webhookSecret string, chatops *notify.ChatOps, logger zerolog.Logger) *Service {
	return &Service{
		repo:          repo,
		client:        client,
		webhookSecret: webhookSecret,
		chatops:       chatops,
		logger:        logger,
	}
}

// Send validates the request, records it, and hands it to the provider. A
// provider failure marks the record failed and surfaces as Unavailable.
func (s *Service) Send(ctx context.Context, req SendRequest) (*Record, error) {
	if strings.TrimSpace(req.ToNumber) == "" {
		return nil, fault.Validation("to_number is required")
	}
	if req.StorageKey == nil && req.Text == nil {
		return nil, fault.Validation("storage_key or text is required")
	}
	if req.StorageKey != nil && req.Text != nil {
		return nil, fault.Validation("storage_key and text are mutually exclusive")
	}
	if s.client == nil {
		return nil, fault.Unavailable("fax provider", errors.New("not configured"))
	}

	rec := &Record{
		ClinicID:   req.ClinicID,
		Direction:  DirectionOutbound,
		ToNumber:   req.ToNumber,
		FromNumber: req.FromNumber,
		Status:     StatusQueued,
		StorageKey: req.StorageKey,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fault.Internal(err)
	}

	result, err := s.client.Send(ctx, ProviderSendRequest{
		ToNumber:   req.ToNumber,
		FromNumber: req.FromNumber,
		StorageKey: req.StorageKey,
		Text:       req.Text,
	})
	if err != nil {
		msg := err.Error()
		rec.Status = StatusFailed
		rec.Error = &msg
		if uerr := s.repo.Update(ctx, rec); uerr != nil {
			s.logger.Error().Err(uerr).Str("fax_id", rec.ID.String()).Msg("failed to mark fax failed")
		}
		s.chatops.Post(fmt.Sprintf("fax %s to %s failed: %s", rec.ID, rec.ToNumber, msg))
		return nil, fault.Unavailable("fax provider", err)
	}

	rec.ProviderFaxID = &result.FaxID
	rec.Status = StatusSending
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fault.Internal(err)
	}
	return rec, nil
}

// ReceiveInbound records a provider-delivered fax from the verified webhook.
func (s *Service) ReceiveInbound(ctx context.Context, in InboundFax) (*Record, error) {
	if in.ProviderFaxID == "" {
		return nil, fault.Validation("fax_id is required")
	}

	pages := in.Pages
	rec := &Record{
		Direction:     DirectionInbound,
		ProviderFaxID: &in.ProviderFaxID,
		ToNumber:      in.ToNumber,
		FromNumber:    in.FromNumber,
		Status:        StatusReceived,
		Pages:         &pages,
		StorageKey:    in.StorageKey,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fault.Internal(err)
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("fax record")
		}
		return nil, fault.Internal(err)
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, direction string, limit, offset int) ([]*Record, int, error) {
	if direction != "" && direction != DirectionInbound && direction != DirectionOutbound {
		return nil, 0, fault.Validation("direction must be inbound or outbound")
	}
	items, total, err := s.repo.List(ctx, direction, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

// VerifyWebhookSignature checks the provider HMAC on a raw webhook body.
func (s *Service) VerifyWebhookSignature(body []byte, signature string) bool {
	return VerifySignature(s.webhookSecret, body, signature)
}
