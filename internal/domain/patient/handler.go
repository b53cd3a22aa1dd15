package patient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/oncolife/oncolife/internal/domain/chemo"
	"github.com/oncolife/oncolife/internal/domain/diary"
	"github.com/oncolife/oncolife/internal/domain/question"
	"github.com/oncolife/oncolife/internal/platform/auth"
	"github.com/oncolife/oncolife/internal/platform/fault"
	"github.com/oncolife/oncolife/pkg/pagination"
)

// RegistrationHandler serves the one public patient-portal write: turning a
// verified token subject into a patient profile.
type RegistrationHandler struct {
	svc *Service
}

func NewRegistrationHandler(svc *Service) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/registration", h.Register)
}

func (h *RegistrationHandler) Register(c echo.Context) error {
	var req RegistrationRequest
	if err := c.Bind(&req); err != nil {
		return fault.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	p, err := h.svc.Register(ctx, auth.UserIDFromContext(ctx), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// DoctorHandler serves the physician-side patient routes. Every route first
// checks the association between the resolved staff principal and the patient
// named in the URL.
type DoctorHandler struct {
	patients  *Service
	questions *question.Service
	diaries   *diary.Service
	chemos    *chemo.Service
}

func NewDoctorHandler(patients *Service, questions *question.Service, diaries *diary.Service, chemos *chemo.Service) *DoctorHandler {
	return &DoctorHandler{patients: patients, questions: questions, diaries: diaries, chemos: chemos}
}

func (h *DoctorHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/patients")
	g.GET("", h.Roster)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete, auth.RequireRole("admin"))
	g.GET("/:id/questions", h.Questions)
	g.PATCH("/:id/questions/:qid/answer", h.AnswerQuestion)
	g.GET("/:id/diary", h.Diary)
	g.GET("/:id/chemo", h.Chemo)
}

func (h *DoctorHandler) Roster(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)

	items, total, err := h.patients.Roster(ctx, auth.PrincipalIDFromContext(ctx), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *DoctorHandler) Get(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	ctx := c.Request().Context()
	p, err := h.patients.GetForPhysician(ctx, auth.PrincipalIDFromContext(ctx), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *DoctorHandler) Delete(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	if err := h.patients.Delete(c.Request().Context(), patientID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Questions lists only the questions the patient chose to share.
func (h *DoctorHandler) Questions(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	ctx := c.Request().Context()
	if err := h.patients.Authorize(ctx, auth.PrincipalIDFromContext(ctx), patientID); err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.questions.ListShared(ctx, patientID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*question.Question{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *DoctorHandler) AnswerQuestion(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	questionID, err := uuid.Parse(c.Param("qid"))
	if err != nil {
		return fault.Validation("invalid question id")
	}
	ctx := c.Request().Context()
	if err := h.patients.Authorize(ctx, auth.PrincipalIDFromContext(ctx), patientID); err != nil {
		return err
	}
	q, err := h.questions.MarkAnswered(ctx, patientID, questionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, q)
}

func (h *DoctorHandler) Diary(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	ctx := c.Request().Context()
	if err := h.patients.Authorize(ctx, auth.PrincipalIDFromContext(ctx), patientID); err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.diaries.ListForPatient(ctx, patientID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*diary.Entry{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *DoctorHandler) Chemo(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fault.Validation("invalid id")
	}
	ctx := c.Request().Context()
	if err := h.patients.Authorize(ctx, auth.PrincipalIDFromContext(ctx), patientID); err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.chemos.ListForPatient(ctx, patientID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*chemo.ChemoDate{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
