package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/discoverdiani/discovery-platform/internal/analytics"
)

// ClientIDKey is the context key for the anonymous client ID.
const ClientIDKey ContextKey = "client_id"

// ClientIDCookie is the cookie that carries the anonymous client ID
// across visits.
const ClientIDCookie = "ddp_client_id"

const clientIDMaxAge = 365 * 24 * time.Hour

// ClientID assigns a stable anonymous identifier to every visitor. The
// ID rides a long-lived cookie so repeat visits from the same browser
// count as one active user.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(ClientIDCookie); err == nil && cookie.Value != "" {
			id = cookie.Value
		} else {
			id = analytics.NewUserID(time.Now().UnixMilli())
			http.SetCookie(w, &http.Cookie{
				Name:     ClientIDCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(clientIDMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ClientIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientID gets the anonymous client ID from context.
func GetClientID(ctx context.Context) string {
	if v := ctx.Value(ClientIDKey); v != nil {
		return v.(string)
	}
	return ""
}
