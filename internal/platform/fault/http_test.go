package fault

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newErrorContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", Validation("question_text is required"), http.StatusUnprocessableEntity},
		{"not found", NotFound("question"), http.StatusNotFound},
		{"unauthenticated", Unauthenticated("missing token"), http.StatusUnauthorized},
		{"permission denied", PermissionDenied("no active association"), http.StatusForbidden},
		{"conflict", Conflict("email already registered"), http.StatusConflict},
		{"unavailable", Unavailable("fax provider", errors.New("timeout")), http.StatusBadGateway},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"echo http error", echo.NewHTTPError(http.StatusBadRequest, "invalid body"), http.StatusBadRequest},
	}

	h := HTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newErrorContext(t)
			h(tt.err, c)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHTTPErrorHandler_InternalHidesCause(t *testing.T) {
	h := HTTPErrorHandler(zerolog.Nop())
	c, rec := newErrorContext(t)

	h(Internal(errors.New("pq: column does not exist")), c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Errorf("expected generic message, got %q", body["error"])
	}
}

func TestHTTPErrorHandler_ValidationBody(t *testing.T) {
	h := HTTPErrorHandler(zerolog.Nop())
	c, rec := newErrorContext(t)

	h(Validation("question_text is required"), c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] != "question_text is required" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
	if body["kind"] != "validation_error" {
		t.Errorf("unexpected kind: %q", body["kind"])
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	h := HTTPErrorHandler(zerolog.Nop())
	c, rec := newErrorContext(t)

	if err := c.JSON(http.StatusOK, map[string]string{"ok": "yes"}); err != nil {
		t.Fatalf("priming response: %v", err)
	}
	h(NotFound("question"), c)

	if rec.Code != http.StatusOK {
		t.Errorf("committed response must not be overwritten, got %d", rec.Code)
	}
}
