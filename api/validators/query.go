package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// ParseQueryInt reads an integer query parameter, returning fallback when it
// is absent. Values outside [lo, hi] are rejected rather than clamped.
func ParseQueryInt(r *http.Request, key string, fallback, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	details := map[string]any{"field": key}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be an integer").WithDetails(details)
	}
	if value < lo || value > hi {
		details["min"], details["max"] = lo, hi
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(details)
	}
	return value, nil
}

// ParseQueryText reads a free-text query parameter, trimmed and cut to maxLen
// characters.
func ParseQueryText(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}
