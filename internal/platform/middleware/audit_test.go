package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oncolife/oncolife/internal/platform/auth"
)

func auditRequest(t *testing.T, mw echo.MiddlewareFunc, method, path, subject string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	if subject != "" {
		ctx := context.WithValue(req.Context(), auth.UserIDKey, subject)
		ctx = context.WithValue(ctx, auth.UserRolesKey, []string{"physician"})
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "rid-audit")
	if err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAudit_LogsAPIAccess(t *testing.T) {
	var buf bytes.Buffer
	mw := Audit(zerolog.New(&buf))

	auditRequest(t, mw, http.MethodGet, "/api/v1/questions/abc-123", "doc-1")

	out := buf.String()
	for _, want := range []string{
		`"type":"phi_access"`,
		`"subject":"doc-1"`,
		`"resource":"questions"`,
		`"action":"read"`,
		`"request_id":"rid-audit"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("audit log missing %s: %s", want, out)
		}
	}
}

func TestAudit_SkipsNonAPIPaths(t *testing.T) {
	var buf bytes.Buffer
	mw := Audit(zerolog.New(&buf))

	auditRequest(t, mw, http.MethodGet, "/health", "")

	if buf.Len() != 0 {
		t.Errorf("expected no audit log for /health, got: %s", buf.String())
	}
}

func TestAudit_ActionsByMethod(t *testing.T) {
	cases := []struct {
		method string
		action string
	}{
		{http.MethodGet, "read"},
		{http.MethodPost, "create"},
		{http.MethodPatch, "update"},
		{http.MethodDelete, "delete"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		mw := Audit(zerolog.New(&buf))
		auditRequest(t, mw, tc.method, "/api/v1/diary", "pat-1")
		if !strings.Contains(buf.String(), `"action":"`+tc.action+`"`) {
			t.Errorf("%s: expected action %q, got: %s", tc.method, tc.action, buf.String())
		}
	}
}

func TestAudit_Recorder(t *testing.T) {
	var recorded []AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	})

	var buf bytes.Buffer
	mw := Audit(zerolog.New(&buf), recorder)
	auditRequest(t, mw, http.MethodGet, "/api/v1/patients/p-9", "doc-2")

	if len(recorded) != 1 {
		t.Fatalf("expected 1 recorded entry, got %d", len(recorded))
	}
	entry := recorded[0]
	if entry.Subject != "doc-2" || entry.Resource != "patients" || entry.StatusCode != http.StatusOK {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestAudit_RecorderFailureDoesNotSurface(t *testing.T) {
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		return errors.New("sink down")
	})

	var buf bytes.Buffer
	mw := Audit(zerolog.New(&buf), recorder)
	auditRequest(t, mw, http.MethodGet, "/api/v1/diary", "pat-2")

	if !strings.Contains(buf.String(), "failed to record audit entry") {
		t.Error("expected recorder failure to be logged")
	}
}

func TestResourceFromPath(t *testing.T) {
	cases := map[string]string{
		"/api/v1/questions":          "questions",
		"/api/v1/questions/q-1":      "questions",
		"/api/v1/patients/p-1/diary": "patients",
		"/api/v1/":                   "unknown",
	}
	for path, want := range cases {
		if got := resourceFromPath(path); got != want {
			t.Errorf("resourceFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
