package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type mockRepo struct {
	summary *Summary
	rollups []*PatientRollup
}

func (m *mockRepo) Summary(_ context.Context, _ uuid.UUID, _ time.Time) (*Summary, error) {
	cp := *m.summary
	return &cp, nil
}

func (m *mockRepo) PatientRollups(_ context.Context, _ uuid.UUID, _ time.Time, limit, offset int) ([]*PatientRollup, int, error) {
	total := len(m.rollups)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	var out []*PatientRollup
	for _, pr := range m.rollups[offset:end] {
		cp := *pr
		out = append(out, &cp)
	}
	return out, total, nil
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestService_Summary(t *testing.T) {
	repo := &mockRepo{summary: &Summary{
		AssociatedPatients: 12,
		UnansweredShared:   3,
		RecentDiaryEntries: 7,
		UpcomingChemoDates: 2,
	}}
	svc := NewService(repo)

	got, err := svc.Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != *repo.summary {
		t.Errorf("summary = %+v, want %+v", got, repo.summary)
	}
}

func TestService_Export(t *testing.T) {
	entry := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	chemo := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	repo := &mockRepo{rollups: []*PatientRollup{
		{
			PatientUUID:         uuid.New(),
			FirstName:           "Ada",
			LastName:            "Byron",
			CancerType:          strPtr("breast"),
			LastDiaryEntry:      timePtr(entry),
			NextChemoDate:       timePtr(chemo),
			OpenSharedQuestions: 2,
		},
		{
			PatientUUID: uuid.New(),
			FirstName:   "Alan",
			LastName:    "Turing",
		},
	}}
	svc := NewService(repo)

	var buf bytes.Buffer
	if err := svc.Export(context.Background(), uuid.New(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("export is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Patients")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Patient ID" || rows[0][6] != "Open Shared Questions" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][1] != "Ada" || rows[1][4] != "2026-08-20" || rows[1][5] != "2026-08-29" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][1] != "Alan" {
		t.Errorf("unexpected second row: %v", rows[2])
	}
}

func TestService_Export_PagesThroughPanel(t *testing.T) {
	var rollups []*PatientRollup
	for i := 0; i < exportPageSize+5; i++ {
		rollups = append(rollups, &PatientRollup{
			PatientUUID: uuid.New(),
			FirstName:   fmt.Sprintf("Patient%d", i),
			LastName:    "Test",
		})
	}
	svc := NewService(&mockRepo{rollups: rollups})

	var buf bytes.Buffer
	if err := svc.Export(context.Background(), uuid.New(), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Patients")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != exportPageSize+6 {
		t.Errorf("expected %d rows, got %d", exportPageSize+6, len(rows))
	}
}
