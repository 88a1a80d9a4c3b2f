package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/google/uuid"
)

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{CookieName: "sf_session", CartTTL: 24 * time.Hour}
}

func TestSessionIssuesCookieWhenMissing(t *testing.T) {
	var seen string
	handler := Session(sessionConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid session id, got %q", seen)
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "sf_session" || cookie.Value != seen {
		t.Fatalf("unexpected cookie %+v", cookie)
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie must be HttpOnly and SameSite=Lax: %+v", cookie)
	}
	if cookie.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("unexpected max age %d", cookie.MaxAge)
	}
}

func TestSessionReusesValidCookie(t *testing.T) {
	existing := uuid.NewString()
	var seen string
	handler := Session(sessionConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: existing})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != existing {
		t.Fatalf("expected session %s, got %s", existing, seen)
	}
}

func TestSessionReplacesMalformedCookie(t *testing.T) {
	var seen string
	handler := Session(sessionConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: "../../etc/passwd"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected fresh uuid, got %q", seen)
	}
}
