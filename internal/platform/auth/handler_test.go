package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/oncolife/oncolife/internal/platform/fault"
)

func TestHandler_Me(t *testing.T) {
	h := NewHandler(JWTConfig{}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	contextWithRoles(c, "subject-1", "patient")

	if err := h.Me(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["subject"] != "subject-1" {
		t.Errorf("expected subject-1, got %v", body["subject"])
	}
	if _, ok := body["profile"]; ok {
		t.Error("expected no profile without a resolver")
	}
}

func TestHandler_Me_WithResolver(t *testing.T) {
	resolver := func(ctx context.Context, subject string) (interface{}, error) {
		if subject != "subject-2" {
			return nil, fault.NotFound("profile not found")
		}
		return map[string]string{"first_name": "Ada"}, nil
	}
	h := NewHandler(JWTConfig{}, resolver)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	contextWithRoles(c, "subject-2", "physician")

	if err := h.Me(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	profile, ok := body["profile"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected profile object, got %v", body["profile"])
	}
	if profile["first_name"] != "Ada" {
		t.Errorf("unexpected profile: %v", profile)
	}
}

func TestHandler_Me_ResolverError(t *testing.T) {
	resolver := func(ctx context.Context, subject string) (interface{}, error) {
		return nil, fault.NotFound("no profile for subject")
	}
	h := NewHandler(JWTConfig{}, resolver)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	contextWithRoles(c, "ghost", "patient")

	err := h.Me(c)
	if fault.KindOf(err) != fault.KindNotFound {
		t.Errorf("expected not found fault, got %v", err)
	}
}

func TestHandler_ProviderConfig(t *testing.T) {
	h := NewHandler(JWTConfig{
		Issuer:   "https://idp.example.com",
		Audience: "oncolife-api",
		JWKSURL:  "https://idp.example.com/jwks",
	}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/config", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ProviderConfig(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["issuer"] != "https://idp.example.com" {
		t.Errorf("unexpected issuer: %q", body["issuer"])
	}
	if body["audience"] != "oncolife-api" {
		t.Errorf("unexpected audience: %q", body["audience"])
	}
}
