package dashboard

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/oncolife/oncolife/internal/platform/fault"
)

// exportDateLayout formats dates in the workbook.
const exportDateLayout = "2006-01-02"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Summary(ctx context.Context, physicianID uuid.UUID) (*Summary, error) {
	summary, err := s.repo.Summary(ctx, physicianID, s.now().UTC())
	if err != nil {
		return nil, fault.Internal(err)
	}
	return summary, nil
}

func (s *Service) Patients(ctx context.Context, physicianID uuid.UUID, limit, offset int) ([]*PatientRollup, int, error) {
	items, total, err := s.repo.PatientRollups(ctx, physicianID, s.now().UTC(), limit, offset)
	if err != nil {
		return nil, 0, fault.Internal(err)
	}
	return items, total, nil
}

// exportPageSize bounds each rollup query while exporting the full panel.
const exportPageSize = 500

// Export writes the full roster as an xlsx workbook to w.
func (s *Service) Export(ctx context.Context, physicianID uuid.UUID, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Patients"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Patient ID", "First Name", "Last Name", "Cancer Type",
		"Last Diary Entry", "Next Chemo Date", "Open Shared Questions"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fault.Internal(err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fault.Internal(err)
		}
	}

	row := 2
	now := s.now().UTC()
	for offset := 0; ; offset += exportPageSize {
		items, _, err := s.repo.PatientRollups(ctx, physicianID, now, exportPageSize, offset)
		if err != nil {
			return fault.Internal(err)
		}
		for _, pr := range items {
			values := []interface{}{
				pr.PatientUUID.String(),
				pr.FirstName,
				pr.LastName,
				deref(pr.CancerType),
				formatDate(pr.LastDiaryEntry),
				formatDate(pr.NextChemoDate),
				pr.OpenSharedQuestions,
			}
			for i, v := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return fault.Internal(err)
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return fault.Internal(err)
				}
			}
			row++
		}
		if len(items) < exportPageSize {
			break
		}
	}

	if err := f.Write(w); err != nil {
		return fault.Internal(fmt.Errorf("write workbook: %w", err))
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}
