package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/oncolife/oncolife/internal/domain/question"
	"github.com/oncolife/oncolife/internal/platform/auth"
	"github.com/oncolife/oncolife/internal/platform/fault"
	"github.com/oncolife/oncolife/pkg/pagination"
)

// mockQuestionRepo is a minimal question.Repository for the physician routes.
type mockQuestionRepo struct {
	records map[uuid.UUID]*question.Question
	order   []uuid.UUID
}

func newMockQuestionRepo() *mockQuestionRepo {
	return &mockQuestionRepo{records: make(map[uuid.UUID]*question.Question)}
}

func (m *mockQuestionRepo) Create(_ context.Context, q *question.Question) error {
	q.ID = uuid.New()
	cp := *q
	m.records[q.ID] = &cp
	m.order = append(m.order, q.ID)
	return nil
}

func (m *mockQuestionRepo) GetByID(_ context.Context, patientID, id uuid.UUID) (*question.Question, error) {
	q, ok := m.records[id]
	if !ok || q.PatientUUID != patientID {
		return nil, pgx.ErrNoRows
	}
	cp := *q
	return &cp, nil
}

func (m *mockQuestionRepo) GetShared(_ context.Context, patientID, id uuid.UUID) (*question.Question, error) {
	q, err := m.GetByID(nil, patientID, id)
	if err != nil {
		return nil, err
	}
	if !q.ShareWithPhysician {
		return nil, pgx.ErrNoRows
	}
	return q, nil
}

func (m *mockQuestionRepo) Update(_ context.Context, q *question.Question) error {
	if _, ok := m.records[q.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *q
	m.records[q.ID] = &cp
	return nil
}

func (m *mockQuestionRepo) SoftDelete(_ context.Context, patientID, id uuid.UUID) (bool, error) {
	q, ok := m.records[id]
	if !ok || q.PatientUUID != patientID {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *mockQuestionRepo) List(_ context.Context, patientID uuid.UUID, sharedOnly bool, limit, offset int) ([]*question.Question, int, error) {
	var all []*question.Question
	for _, id := range m.order {
		q, ok := m.records[id]
		if !ok || q.PatientUUID != patientID {
			continue
		}
		if sharedOnly && !q.ShareWithPhysician {
			continue
		}
		cp := *q
		all = append(all, &cp)
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func newDoctorFixture(t *testing.T) (*DoctorHandler, *Service, *mockQuestionRepo) {
	t.Helper()
	patients, _, _ := newTestService()
	questions := newMockQuestionRepo()
	h := NewDoctorHandler(patients, question.NewService(questions), nil, nil)
	return h, patients, questions
}

func doDoctorRequest(t *testing.T, h echo.HandlerFunc, principal uuid.UUID, method, target, body string, params ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.PrincipalIDKey, principal)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return rec, h(c)
}

func registerPatient(t *testing.T, svc *Service, subject string, physician uuid.UUID) *Patient {
	t.Helper()
	req := validRegistration()
	req.PhysicianUUID = physician
	p, err := svc.Register(context.Background(), subject, req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return p
}

func TestRegistrationHandler_Register(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewRegistrationHandler(svc)

	e := echo.New()
	body := `{"first_name":"Ada","last_name":"Byron","email":"ada@example.org",` +
		`"physician_uuid":"` + uuid.New().String() + `","clinic_uuid":"` + uuid.New().String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/registration", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, "auth0|ada")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	if err := h.Register(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var p Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.FirstName != "Ada" {
		t.Errorf("first name = %q", p.FirstName)
	}
	if strings.Contains(rec.Body.String(), "auth_subject") || strings.Contains(rec.Body.String(), "auth0|ada") {
		t.Error("response leaks the auth subject")
	}
}

func TestDoctorHandler_Get_RequiresAssociation(t *testing.T) {
	h, patients, _ := newDoctorFixture(t)
	physician := uuid.New()
	p := registerPatient(t, patients, "auth0|ada", physician)

	rec, err := doDoctorRequest(t, h.Get, physician, http.MethodGet, "/api/v1/patients/"+p.ID.String(), "", "id", p.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	_, err = doDoctorRequest(t, h.Get, uuid.New(), http.MethodGet, "/api/v1/patients/"+p.ID.String(), "", "id", p.ID.String())
	if fault.KindOf(err) != fault.KindPermissionDenied {
		t.Errorf("expected permission denied for unassociated physician, got %v", err)
	}
}

func TestDoctorHandler_Roster(t *testing.T) {
	h, patients, _ := newDoctorFixture(t)
	physician := uuid.New()
	registerPatient(t, patients, "auth0|one", physician)
	registerPatient(t, patients, "auth0|two", physician)

	rec, err := doDoctorRequest(t, h.Roster, physician, http.MethodGet, "/api/v1/patients", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var page pagination.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("expected 2 patients, got %d", page.Total)
	}
}

func TestDoctorHandler_Questions_SharedOnly(t *testing.T) {
	h, patients, questions := newDoctorFixture(t)
	physician := uuid.New()
	p := registerPatient(t, patients, "auth0|ada", physician)

	shared := true
	if err := questions.Create(context.Background(), &question.Question{
		PatientUUID: p.ID, QuestionText: "shared", ShareWithPhysician: shared, Category: question.DefaultCategory,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := questions.Create(context.Background(), &question.Question{
		PatientUUID: p.ID, QuestionText: "private", Category: question.DefaultCategory,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, err := doDoctorRequest(t, h.Questions, physician, http.MethodGet, "/api/v1/patients/"+p.ID.String()+"/questions", "", "id", p.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var page pagination.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("expected only the shared question, got %d", page.Total)
	}
}

func TestDoctorHandler_AnswerQuestion(t *testing.T) {
	h, patients, questions := newDoctorFixture(t)
	physician := uuid.New()
	p := registerPatient(t, patients, "auth0|ada", physician)

	q := &question.Question{PatientUUID: p.ID, QuestionText: "shared", ShareWithPhysician: true, Category: question.DefaultCategory}
	if err := questions.Create(context.Background(), q); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, err := doDoctorRequest(t, h.AnswerQuestion, physician, http.MethodPatch,
		"/api/v1/patients/"+p.ID.String()+"/questions/"+q.ID.String()+"/answer", "",
		"id", p.ID.String(), "qid", q.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got question.Question
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.IsAnswered {
		t.Error("question not marked answered")
	}

	// A private question stays invisible to the physician.
	private := &question.Question{PatientUUID: p.ID, QuestionText: "private", Category: question.DefaultCategory}
	if err := questions.Create(context.Background(), private); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err = doDoctorRequest(t, h.AnswerQuestion, physician, http.MethodPatch,
		"/api/v1/patients/"+p.ID.String()+"/questions/"+private.ID.String()+"/answer", "",
		"id", p.ID.String(), "qid", private.ID.String())
	if fault.KindOf(err) != fault.KindNotFound {
		t.Errorf("expected not found for an unshared question, got %v", err)
	}
}

func TestDoctorHandler_Diary_DeniedWithoutAssociation(t *testing.T) {
	h, patients, _ := newDoctorFixture(t)
	p := registerPatient(t, patients, "auth0|ada", uuid.New())

	_, err := doDoctorRequest(t, h.Diary, uuid.New(), http.MethodGet, "/api/v1/patients/"+p.ID.String()+"/diary", "", "id", p.ID.String())
	if fault.KindOf(err) != fault.KindPermissionDenied {
		t.Errorf("expected permission denied, got %v", err)
	}
}

func TestDoctorHandler_Delete(t *testing.T) {
	h, patients, _ := newDoctorFixture(t)
	physician := uuid.New()
	p := registerPatient(t, patients, "auth0|ada", physician)

	rec, err := doDoctorRequest(t, h.Delete, physician, http.MethodDelete, "/api/v1/patients/"+p.ID.String(), "", "id", p.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	_, err = doDoctorRequest(t, h.Get, physician, http.MethodGet, "/api/v1/patients/"+p.ID.String(), "", "id", p.ID.String())
	if fault.KindOf(err) != fault.KindPermissionDenied {
		t.Errorf("expected retired association to deny, got %v", err)
	}
}
