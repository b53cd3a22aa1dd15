package diary

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oncolife/oncolife/internal/platform/fault"
)

type mockRepo struct {
	records map[uuid.UUID]*Entry
	deleted map[uuid.UUID]bool
	order   []uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		records: make(map[uuid.UUID]*Entry),
		deleted: make(map[uuid.UUID]bool),
	}
}

func (m *mockRepo) Create(_ context.Context, e *Entry) error {
	e.ID = uuid.New()
	cp := *e
	m.records[e.ID] = &cp
	m.order = append(m.order, e.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, patientID, id uuid.UUID) (*Entry, error) {
	e, ok := m.records[id]
	if !ok || e.PatientUUID != patientID || m.deleted[id] {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, e *Entry) error {
	existing, ok := m.records[e.ID]
	if !ok || existing.PatientUUID != e.PatientUUID || m.deleted[e.ID] {
		return pgx.ErrNoRows
	}
	cp := *e
	m.records[e.ID] = &cp
	return nil
}

func (m *mockRepo) SoftDelete(_ context.Context, patientID, id uuid.UUID) (bool, error) {
	e, ok := m.records[id]
	if !ok || e.PatientUUID != patientID || m.deleted[id] {
		return false, nil
	}
	m.deleted[id] = true
	return true, nil
}

func (m *mockRepo) List(_ context.Context, patientID uuid.UUID, filter ListFilter, limit, offset int) ([]*Entry, int, error) {
	var matched []*Entry
	for _, id := range m.order {
		e := m.records[id]
		if e.PatientUUID != patientID || m.deleted[id] {
			continue
		}
		if filter.From != nil && e.EntryDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.EntryDate.After(*filter.To) {
			continue
		}
		cp := *e
		matched = append(matched, &cp)
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	svc := NewService(newMockRepo())
	patientID := uuid.New()

	e, err := svc.Create(context.Background(), patientID, CreateRequest{
		EntryDate:   "2026-08-20",
		SymptomCode: strPtr("nausea"),
		Severity:    intPtr(4),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.EntryDate.Format(DateLayout) != "2026-08-20" {
		t.Errorf("unexpected date: %v", e.EntryDate)
	}
	if e.Severity == nil || *e.Severity != 4 {
		t.Errorf("unexpected severity: %v", e.Severity)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []CreateRequest{
		{},
		{EntryDate: "not-a-date"},
		{EntryDate: "2026-08-20", Severity: intPtr(-1)},
		{EntryDate: "2026-08-20", Severity: intPtr(11)},
	}
	for i, req := range cases {
		if _, err := svc.Create(context.Background(), uuid.New(), req); fault.KindOf(err) != fault.KindValidation {
			t.Errorf("case %d: expected validation fault, got %v", i, err)
		}
	}

	// Boundary severities are accepted.
	for _, sev := range []int{0, 10} {
		if _, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
			EntryDate: "2026-08-20", Severity: intPtr(sev),
		}); err != nil {
			t.Errorf("severity %d: unexpected error %v", sev, err)
		}
	}
}

func TestService_List_DateWindow(t *testing.T) {
	svc := NewService(newMockRepo())
	patientID := uuid.New()

	for _, date := range []string{"2026-08-01", "2026-08-10", "2026-08-20"} {
		if _, err := svc.Create(context.Background(), patientID, CreateRequest{EntryDate: date}); err != nil {
			t.Fatalf("create %s: %v", date, err)
		}
	}

	items, total, err := svc.List(context.Background(), patientID, "2026-08-05", "2026-08-15", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 entry in window, got %d", total)
	}
	if items[0].EntryDate.Format(DateLayout) != "2026-08-10" {
		t.Errorf("wrong entry in window: %v", items[0].EntryDate)
	}

	_, _, err = svc.List(context.Background(), patientID, "bogus", "", 10, 0)
	if fault.KindOf(err) != fault.KindValidation {
		t.Errorf("expected validation fault for bad from date, got %v", err)
	}
}

func TestService_List_CreationOrder(t *testing.T) {
	svc := NewService(newMockRepo())
	patientID := uuid.New()

	// Later entry dated earlier: listing still follows creation order.
	dates := []string{"2026-08-20", "2026-08-01"}
	for _, date := range dates {
		if _, err := svc.Create(context.Background(), patientID, CreateRequest{EntryDate: date}); err != nil {
			t.Fatalf("create %s: %v", date, err)
		}
	}

	items, _, err := svc.List(context.Background(), patientID, "", "", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, e := range items {
		if e.EntryDate.Format(DateLayout) != dates[i] {
			t.Errorf("position %d: expected %s, got %s", i, dates[i], e.EntryDate.Format(DateLayout))
		}
	}
}

func TestService_Update_Severity(t *testing.T) {
	svc := NewService(newMockRepo())
	patientID := uuid.New()

	e, _ := svc.Create(context.Background(), patientID, CreateRequest{EntryDate: "2026-08-20"})

	_, err := svc.Update(context.Background(), patientID, e.ID, UpdateRequest{Severity: intPtr(12)})
	if fault.KindOf(err) != fault.KindValidation {
		t.Errorf("expected validation fault, got %v", err)
	}

	updated, err := svc.Update(context.Background(), patientID, e.ID, UpdateRequest{Severity: intPtr(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Severity == nil || *updated.Severity != 7 {
		t.Errorf("severity not applied: %v", updated.Severity)
	}
}

func TestService_Delete(t *testing.T) {
	svc := NewService(newMockRepo())
	patientID := uuid.New()

	e, _ := svc.Create(context.Background(), patientID, CreateRequest{EntryDate: "2026-08-20"})

	if err := svc.Delete(context.Background(), patientID, e.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Get(context.Background(), patientID, e.ID)
	if fault.KindOf(err) != fault.KindNotFound {
		t.Errorf("expected not found after delete, got %v", err)
	}

	_, total, _ := svc.List(context.Background(), patientID, "", "", 10, 0)
	if total != 0 {
		t.Errorf("deleted entry reappeared, total=%d", total)
	}
}

func TestService_OwnerScoping(t *testing.T) {
	svc := NewService(newMockRepo())
	owner := uuid.New()

	e, _ := svc.Create(context.Background(), owner, CreateRequest{
		EntryDate: time.Now().Format(DateLayout),
	})

	if _, err := svc.Get(context.Background(), uuid.New(), e.ID); fault.KindOf(err) != fault.KindNotFound {
		t.Errorf("expected not found for other patient, got %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.New(), e.ID); fault.KindOf(err) != fault.KindNotFound {
		t.Errorf("expected not found delete for other patient, got %v", err)
	}
}
