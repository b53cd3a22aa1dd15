package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oncolife/oncolife/internal/domain/chemo"
	"github.com/oncolife/oncolife/internal/domain/clinic"
	"github.com/oncolife/oncolife/internal/domain/dashboard"
	"github.com/oncolife/oncolife/internal/domain/diary"
	"github.com/oncolife/oncolife/internal/domain/onboarding"
	"github.com/oncolife/oncolife/internal/domain/patient"
	"github.com/oncolife/oncolife/internal/domain/question"
	"github.com/oncolife/oncolife/internal/domain/staff"
	"github.com/oncolife/oncolife/internal/platform/fault"
)

func newPatientService() *patient.Service {
	return patient.NewService(
		patient.NewRepoPG(patientPool),
		patient.NewAssociationRepoPG(patientPool),
		patientPool,
		nil,
		zerolog.Nop(),
	)
}

// createPhysician enrolls a clinic and a physician in the doctor database and
// returns their ids.
func createPhysician(t *testing.T, ctx context.Context, tag string) (physicianID, clinicID uuid.UUID) {
	t.Helper()

	cl, err := clinic.NewService(clinic.NewRepoPG(doctorPool)).Create(ctx, clinic.CreateRequest{
		Name: "Clinic " + tag,
	})
	if err != nil {
		t.Fatalf("create clinic: %v", err)
	}

	st, err := staff.NewService(staff.NewRepoPG(doctorPool)).Create(ctx, staff.CreateRequest{
		ClinicID:    cl.ID,
		AuthSubject: "auth0|physician-" + tag,
		FirstName:   "Doc",
		LastName:    tag,
		Email:       fmt.Sprintf("doc-%s@example.org", tag),
		Role:        staff.RolePhysician,
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	return st.ID, cl.ID
}

// registerPatient registers a new patient associated with the physician.
func registerPatient(t *testing.T, ctx context.Context, svc *patient.Service, tag string, physicianID, clinicID uuid.UUID) *patient.Patient {
	t.Helper()

	p, err := svc.Register(ctx, "auth0|patient-"+tag, patient.RegistrationRequest{
		FirstName:     "Pat",
		LastName:      tag,
		Email:         fmt.Sprintf("pat-%s@example.org", tag),
		PhysicianUUID: physicianID,
		ClinicUUID:    clinicID,
	})
	if err != nil {
		t.Fatalf("register patient: %v", err)
	}
	return p
}

func TestRegistrationAndAssociation(t *testing.T) {
	ctx := context.Background()
	svc := newPatientService()
	physicianID, clinicID := createPhysician(t, ctx, "reg")

	p := registerPatient(t, ctx, svc, "reg", physicianID, clinicID)

	if _, err := svc.Register(ctx, "auth0|patient-reg", patient.RegistrationRequest{
		FirstName:     "Pat",
		LastName:      "Again",
		Email:         "again@example.org",
		PhysicianUUID: physicianID,
		ClinicUUID:    clinicID,
	}); fault.KindOf(err) != fault.KindConflict {
		t.Errorf("duplicate registration: expected conflict, got %v", err)
	}

	id, err := svc.ResolveSubject(ctx, "auth0|patient-reg")
	if err != nil {
		t.Fatalf("resolve subject: %v", err)
	}
	if id != p.ID {
		t.Errorf("resolved id = %s, want %s", id, p.ID)
	}

	if err := svc.Authorize(ctx, physicianID, p.ID); err != nil {
		t.Errorf("physician should be authorized: %v", err)
	}
	stranger, _ := createPhysician(t, ctx, "reg-stranger")
	if err := svc.Authorize(ctx, stranger, p.ID); fault.KindOf(err) != fault.KindPermissionDenied {
		t.Errorf("unassociated physician: expected permission denied, got %v", err)
	}
}

func TestSharedQuestionVisibility(t *testing.T) {
	ctx := context.Background()
	patientSvc := newPatientService()
	questionSvc := question.NewService(question.NewRepoPG(patientPool))
	physicianID, clinicID := createPhysician(t, ctx, "questions")
	p := registerPatient(t, ctx, patientSvc, "questions", physicianID, clinicID)

	shared := true
	if _, err := questionSvc.Create(ctx, p.ID, question.CreateRequest{
		QuestionText:       "Is nausea after the second cycle expected?",
		ShareWithPhysician: &shared,
	}); err != nil {
		t.Fatalf("create shared question: %v", err)
	}
	if _, err := questionSvc.Create(ctx, p.ID, question.CreateRequest{
		QuestionText: "Private note to myself",
	}); err != nil {
		t.Fatalf("create private question: %v", err)
	}

	mine, total, err := questionSvc.List(ctx, p.ID, false, 20, 0)
	if err != nil {
		t.Fatalf("list own questions: %v", err)
	}
	if total != 2 || len(mine) != 2 {
		t.Errorf("patient sees %d of %d questions, want 2 of 2", len(mine), total)
	}

	visible, total, err := questionSvc.ListShared(ctx, p.ID, 20, 0)
	if err != nil {
		t.Fatalf("list shared questions: %v", err)
	}
	if total != 1 || len(visible) != 1 {
		t.Fatalf("physician sees %d of %d questions, want 1 of 1", len(visible), total)
	}
	if !visible[0].ShareWithPhysician {
		t.Error("physician view returned an unshared question")
	}

	answered, err := questionSvc.MarkAnswered(ctx, p.ID, visible[0].ID)
	if err != nil {
		t.Fatalf("mark answered: %v", err)
	}
	if !answered.IsAnswered {
		t.Error("question not marked answered")
	}
}

func TestDashboardAggregates(t *testing.T) {
	ctx := context.Background()
	patientSvc := newPatientService()
	physicianID, clinicID := createPhysician(t, ctx, "dashboard")
	p := registerPatient(t, ctx, patientSvc, "dashboard", physicianID, clinicID)

	questionSvc := question.NewService(question.NewRepoPG(patientPool))
	shared := true
	if _, err := questionSvc.Create(ctx, p.ID, question.CreateRequest{
		QuestionText:       "When is my next appointment?",
		ShareWithPhysician: &shared,
	}); err != nil {
		t.Fatalf("create question: %v", err)
	}

	diarySvc := diary.NewService(diary.NewRepoPG(patientPool))
	if _, err := diarySvc.Create(ctx, p.ID, diary.CreateRequest{
		EntryDate:   "2026-08-22",
		SymptomCode: ptrStr("nausea"),
	}); err != nil {
		t.Fatalf("create diary entry: %v", err)
	}

	chemoSvc := chemo.NewService(chemo.NewRepoPG(patientPool))
	if _, err := chemoSvc.Create(ctx, p.ID, chemo.CreateRequest{
		TreatmentDate: "2026-08-28",
	}); err != nil {
		t.Fatalf("create chemo date: %v", err)
	}

	dashboardSvc := dashboard.NewService(dashboard.NewRepoPG(patientPool))
	summary, err := dashboardSvc.Summary(ctx, physicianID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.AssociatedPatients != 1 {
		t.Errorf("associated patients = %d, want 1", summary.AssociatedPatients)
	}
	if summary.UnansweredShared != 1 {
		t.Errorf("unanswered shared = %d, want 1", summary.UnansweredShared)
	}

	rollups, total, err := dashboardSvc.Patients(ctx, physicianID, 20, 0)
	if err != nil {
		t.Fatalf("rollups: %v", err)
	}
	if total != 1 || len(rollups) != 1 {
		t.Fatalf("rollups = %d of %d, want 1 of 1", len(rollups), total)
	}
	if rollups[0].PatientUUID != p.ID {
		t.Errorf("rollup patient = %s, want %s", rollups[0].PatientUUID, p.ID)
	}
	if rollups[0].OpenSharedQuestions != 1 {
		t.Errorf("open shared questions = %d, want 1", rollups[0].OpenSharedQuestions)
	}
}

func TestOnboardingLifecycle(t *testing.T) {
	ctx := context.Background()
	patientSvc := newPatientService()
	physicianID, clinicID := createPhysician(t, ctx, "onboarding")
	p := registerPatient(t, ctx, patientSvc, "onboarding", physicianID, clinicID)

	svc := onboarding.NewService(onboarding.NewRepoPG(patientPool))

	status, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if status.ProfileCompleted || status.FirstCheckinCompleted || status.EducationViewed {
		t.Error("fresh status should have all flags false")
	}
	if status.CompletedAt != nil {
		t.Error("fresh status should not be completed")
	}

	yes := true
	status, err = svc.Update(ctx, p.ID, onboarding.UpdateRequest{
		ProfileCompleted:      &yes,
		FirstCheckinCompleted: &yes,
		EducationViewed:       &yes,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if status.CompletedAt == nil {
		t.Fatal("all steps done, completed_at should be stamped")
	}
	first := *status.CompletedAt

	status, err = svc.Update(ctx, p.ID, onboarding.UpdateRequest{ProfileCompleted: &yes})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if status.CompletedAt == nil || !status.CompletedAt.Equal(first) {
		t.Error("completed_at must not move once stamped")
	}
}

func TestPatientDeleteRetiresAssociations(t *testing.T) {
	ctx := context.Background()
	svc := newPatientService()
	physicianID, clinicID := createPhysician(t, ctx, "delete")
	p := registerPatient(t, ctx, svc, "delete", physicianID, clinicID)

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.ResolveSubject(ctx, "auth0|patient-delete"); fault.KindOf(err) != fault.KindNotFound {
		t.Errorf("deleted patient resolved: %v", err)
	}
	if err := svc.Authorize(ctx, physicianID, p.ID); fault.KindOf(err) != fault.KindPermissionDenied {
		t.Errorf("association should be retired, got %v", err)
	}
}
