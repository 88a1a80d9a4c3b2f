package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/google/uuid"
)

func TestRequestIDEchoesCallerValue(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(requestIDHeader)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "edge-42")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if got := resp.Header().Get(requestIDHeader); got != "edge-42" {
		t.Fatalf("expected echoed id got %q", got)
	}
	if seen != "edge-42" {
		t.Fatalf("handler saw %q", seen)
	}
}

func TestRequestIDReplacesUnusableValues(t *testing.T) {
	for _, raw := range []string{"", "has space", strings.Repeat("x", maxRequestIDLength+1)} {
		handler := RequestID(nil)(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if raw != "" {
			req.Header.Set(requestIDHeader, raw)
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if _, err := uuid.Parse(resp.Header().Get(requestIDHeader)); err != nil {
			t.Fatalf("expected minted uuid for %q, got %q", raw, resp.Header().Get(requestIDHeader))
		}
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
	if strings.Contains(body.Error.Message, "boom") {
		t.Fatalf("panic value leaked: %q", body.Error.Message)
	}
}
