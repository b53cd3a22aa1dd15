package education

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/oncolife/oncolife/internal/domain/chat"
	"github.com/oncolife/oncolife/internal/platform/blobstore"
	"github.com/oncolife/oncolife/internal/platform/db"
	"github.com/oncolife/oncolife/internal/platform/fault"
	"github.com/oncolife/oncolife/internal/platform/notify"
)

func storageKey(id uuid.UUID) string {
	return fmt.Sprintf("education/%s.pdf", id)
}

// ── Content management (doctor portal) ──

// ContentService owns the symptom catalog and the document lifecycle:
// draft, approve, toggle visibility. Approved content is frozen.
type ContentService struct {
	docs     DocumentRepository
	symptoms SymptomRepository
	store    blobstore.Store
}

func NewContentService(docs DocumentRepository, symptoms SymptomRepository, store blobstore.Store) *ContentService {
	return &ContentService{docs: docs, symptoms: symptoms, store: store}
}

func (s *ContentService) CreateDocument(ctx context.Context, createdBy uuid.UUID, req CreateDocumentRequest) (*Document, error) {
	if strings.TrimSpace(req.SymptomCode) == "" {
		return nil, fault.Validation("symptom_code is required")
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Summary) == "" {
		return nil, fault.Validation("title and summary are required")
	}

	title := strings.TrimSpace(req.Title)
	latest, err := s.docs.LatestVersion(ctx, req.SymptomCode, title)
	if err != nil {
		return nil, fault.Internal(err)
	}

	d := &Document{
		SymptomCode: req.SymptomCode,
		Title:       title,
		Summary:     req.Summary,
		Status:      StatusDraft,
		IsActive:    true,
		Version:     latest + 1,
	}
	if createdBy != uuid.Nil {
		d.CreatedBy = &createdBy
	}
	if err := s.docs.Create(ctx, d); err != nil {
		return nil, fault.Internal(err)
	}
	return d, nil
}

func (s *ContentService) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	d, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("document")
		}
		return nil, fault.Internal(err)
	}
	return d, nil
}

func (s *ContentService) ListDocuments(ctx context.Context, symptomCode string, limit, offset int) ([]*Document, int, error) {
	items, total, err := s.docs.List(ctx, DocumentFilter{SymptomCode: symptomCode}, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

func (s *ContentService) UpdateDocument(ctx context.Context, id uuid.UUID, req UpdateDocumentRequest) (*Document, error) {
	d, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	touchesContent := req.Title != nil || req.Summary != nil
	if d.Status == StatusApproved && touchesContent {
		return nil, fault.Conflict("an approved document is content-frozen; create a new version")
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fault.Validation("title is required")
		}
		d.Title = strings.TrimSpace(*req.Title)
	}
	if req.Summary != nil {
		if strings.TrimSpace(*req.Summary) == "" {
			return nil, fault.Validation("summary is required")
		}
		d.Summary = *req.Summary
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}

	if err := s.docs.Update(ctx, d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("document")
		}
		return nil, fault.Internal(err)
	}
	return d, nil
}

// Approve freezes the document content. Approving an approved document is a
// no-op returning the current row.
func (s *ContentService) Approve(ctx context.Context, id uuid.UUID) (*Document, error) {
	d, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == StatusApproved {
		return d, nil
	}
	d.Status = StatusApproved
	if err := s.docs.Update(ctx, d); err != nil {
		return nil, fault.Internal(err)
	}
	return d, nil
}

// UploadURL returns a presigned PUT URL for the document's PDF and records
// the storage key. The PDF is content, so approved documents refuse uploads.
func (s *ContentService) UploadURL(ctx context.Context, id uuid.UUID) (*blobstore.PresignedURL, error) {
	d, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == StatusApproved {
		return nil, fault.Conflict("an approved document is content-frozen; create a new version")
	}

	key := storageKey(d.ID)
	presigned, err := s.store.PresignPut(ctx, key, "application/pdf")
	if err != nil {
		return nil, fault.Unavailable("object storage", err)
	}
	d.StorageKey = &key
	if err := s.docs.Update(ctx, d); err != nil {
		return nil, fault.Internal(err)
	}
	return presigned, nil
}

func (s *ContentService) CreateSymptom(ctx context.Context, req CreateSymptomRequest) (*Symptom, error) {
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.DisplayName) == "" {
		return nil, fault.Validation("code and display_name are required")
	}
	sym := &Symptom{
		Code:        strings.TrimSpace(req.Code),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.symptoms.Create(ctx, sym); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fault.Conflict("a symptom with this code already exists")
		}
		return nil, fault.Internal(err)
	}
	return sym, nil
}

func (s *ContentService) GetSymptom(ctx context.Context, id uuid.UUID) (*Symptom, error) {
	sym, err := s.symptoms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("symptom")
		}
		return nil, fault.Internal(err)
	}
	return sym, nil
}

func (s *ContentService) ListSymptoms(ctx context.Context, limit, offset int) ([]*Symptom, int, error) {
	items, total, err := s.symptoms.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

func (s *ContentService) UpdateSymptom(ctx context.Context, id uuid.UUID, req UpdateSymptomRequest) (*Symptom, error) {
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		return nil, fault.Validation("display_name is required")
	}
	sym, err := s.GetSymptom(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		sym.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Description != nil {
		sym.Description = *req.Description
	}
	if req.IsActive != nil {
		sym.IsActive = *req.IsActive
	}
	if err := s.symptoms.Update(ctx, sym); err != nil {
		return nil, fault.Internal(err)
	}
	return sym, nil
}

// DeactivateSymptom retires a catalog entry. Symptom rows are referenced by
// code from documents and sessions, so they are deactivated, never deleted.
func (s *ContentService) DeactivateSymptom(ctx context.Context, id uuid.UUID) error {
	sym, err := s.GetSymptom(ctx, id)
	if err != nil {
		return err
	}
	if !sym.IsActive {
		return nil
	}
	sym.IsActive = false
	if err := s.symptoms.Update(ctx, sym); err != nil {
		return fault.Internal(err)
	}
	return nil
}

// ── Delivery assembly (patient portal) ──

// SessionSource looks up a symptom session for the owning patient. The chat
// service satisfies it.
type SessionSource interface {
	GetSession(ctx context.Context, patientID, id uuid.UUID) (*chat.SymptomSession, error)
}

// DeliveryService assembles education content for a completed checker
// session, reading documents from the doctor database and auditing in the
// patient database.
type DeliveryService struct {
	docs       DocumentRepository
	deliveries DeliveryRepository
	sessions   SessionSource
	store      blobstore.Store
	chatops    *notify.ChatOps
	logger     zerolog.Logger
}

func NewDeliveryService(docs DocumentRepository, deliveries DeliveryRepository, sessions SessionSource, store blobstore.Store, chatops *notify.ChatOps, logger zerolog.Logger) *DeliveryService {
	return &DeliveryService{docs: docs, deliveries: deliveries, sessions: sessions, store: store, chatops: chatops, logger: logger}
}

// Assemble builds the education package for a completed symptom session:
// summaries of the visible documents per flagged symptom, in symptom order,
// closed by the disclaimer and the care-team handout reference.
func (s *DeliveryService) Assemble(ctx context.Context, patientID uuid.UUID, req DeliveryRequest) (*DeliveryResponse, error) {
	if req.SessionID == uuid.Nil {
		return nil, fault.Validation("session_id is required")
	}
	session, err := s.sessions.GetSession(ctx, patientID, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.CompletedAt == nil {
		return nil, fault.Validation("symptom session is not completed")
	}

	var (
		content   strings.Builder
		documents []*Document
		docIDs    = []uuid.UUID{}
	)
	for _, code := range session.FlaggedSymptoms {
		docs, err := s.docs.ListVisibleBySymptom(ctx, code)
		if err != nil {
			return nil, fault.Internal(err)
		}
		for _, d := range docs {
			content.WriteString(d.Summary)
			content.WriteString("\n\n")
			documents = append(documents, d)
			docIDs = append(docIDs, d.ID)
		}
	}
	content.WriteString(Disclaimer)
	content.WriteString("\n\n")
	content.WriteString(CareTeamHandout)

	delivery := &Delivery{
		SessionID:   session.ID,
		PatientUUID: patientID,
		DocumentIDs: docIDs,
		DeliveredAt: time.Now().UTC(),
	}
	if err := s.deliveries.Create(ctx, delivery); err != nil {
		s.logger.Error().Err(err).
			Str("session_id", session.ID.String()).
			Msg("education delivery audit write failed")
		if s.chatops != nil {
			s.chatops.Post(fmt.Sprintf("Education delivery failed for session %s", session.ID))
		}
		return nil, fault.Internal(err)
	}

	if documents == nil {
		documents = []*Document{}
	}
	return &DeliveryResponse{
		DeliveryID:  delivery.ID,
		SessionID:   session.ID,
		Content:     content.String(),
		Documents:   documents,
		DeliveredAt: delivery.DeliveredAt,
	}, nil
}

// ListVisibleDocuments lists approved, active documents for patients.
func (s *DeliveryService) ListVisibleDocuments(ctx context.Context, symptomCode string, limit, offset int) ([]*Document, int, error) {
	items, total, err := s.docs.List(ctx, DocumentFilter{SymptomCode: symptomCode, VisibleOnly: true}, limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

// DownloadURL returns a presigned GET URL for a visible document's PDF.
func (s *DeliveryService) DownloadURL(ctx context.Context, id uuid.UUID) (*blobstore.PresignedURL, error) {
	d, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fault.NotFound("document")
		}
		return nil, fault.Internal(err)
	}
	if d.Status != StatusApproved || !d.IsActive || !d.HasPDF() {
		return nil, fault.NotFound("document")
	}

	presigned, err := s.store.PresignGet(ctx, *d.StorageKey)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fault.NotFound("document")
		}
		return nil, fault.Unavailable("object storage", err)
	}
	return presigned, nil
}
