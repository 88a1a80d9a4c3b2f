package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func postCheckout(handler http.Handler, ip, body string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", ip)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp.Code
}

func TestRateLimitBlocksPerIP(t *testing.T) {
	store, mr := newIdempotencyStore(t)
	policy := NewRateLimitPolicy("checkout", time.Minute, 2, 0)
	handler := RateLimit(policy, store, nil)(okHandler())

	assert.Equal(t, http.StatusOK, postCheckout(handler, "10.0.0.1", `{}`))
	assert.Equal(t, http.StatusOK, postCheckout(handler, "10.0.0.1", `{}`))
	assert.Equal(t, http.StatusTooManyRequests, postCheckout(handler, "10.0.0.1", `{}`))
	assert.Equal(t, http.StatusOK, postCheckout(handler, "10.0.0.2", `{}`), "other clients unaffected")

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, postCheckout(handler, "10.0.0.1", `{}`), "window resets")
}

func TestRateLimitBlocksPerEmailAndKeepsBody(t *testing.T) {
	store, mr := newIdempotencyStore(t)
	policy := NewRateLimitPolicy("checkout", time.Minute, 0, 1)

	var seenBody string
	handler := RateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seenBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"email":" Ana@Example.com "}`
	assert.Equal(t, http.StatusOK, postCheckout(handler, "10.0.0.1", body))
	assert.Equal(t, body, seenBody)
	assert.Equal(t, http.StatusTooManyRequests, postCheckout(handler, "10.0.0.2", `{"email":"ana@example.com"}`))

	for _, key := range mr.Keys() {
		assert.NotContains(t, key, "ana@example.com", "emails are hashed")
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := RateLimit(NewRateLimitPolicy("checkout", 0, 1, 1), nil, nil)(okHandler())
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, postCheckout(handler, "10.0.0.1", `{}`))
	}
}
