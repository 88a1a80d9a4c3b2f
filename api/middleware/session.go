package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

// Session resolves the visitor session from its cookie, issuing a new one when
// the cookie is absent or malformed.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	name := cfg.CookieName
	if name == "" {
		name = "sf_session"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(name); err == nil {
				if parsed, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = parsed.String()
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			// Refreshed on every request so the cookie slides with the cart TTL.
			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cfg.CartTTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
