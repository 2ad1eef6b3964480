package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/agenda-vta/internal/session"
)

// ClientCookieName identifies the browser whose storage namespace a request
// reads and writes.
const ClientCookieName = "vta_client"

const clientCookieMaxAge = 365 * 24 * time.Hour

type ctxKey int

const (
	clientKey ctxKey = iota
	recordKey
)

// ClientMiddleware makes sure every request carries a client id, issuing a
// new cookie when the request has none or an invalid one.
func (h *Handler) ClientMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(ClientCookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(clientCookieMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   h.opts.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
			slog.Debug("Issued client id", "client", id, "component", "Web")
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientKey, id)))
	})
}

// ClientID returns the client id stored by ClientMiddleware.
func ClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientKey).(string)
	return id
}

// sessionService returns the session service of the requesting client.
func (h *Handler) sessionService(r *http.Request) *session.Service {
	return session.NewService(h.sessions.ForClient(ClientID(r.Context())))
}

// currentSession returns the active record or nil. Storage errors are
// logged and treated as logged out.
func (h *Handler) currentSession(r *http.Request) *session.Record {
	if rec, ok := r.Context().Value(recordKey).(*session.Record); ok {
		return rec
	}
	rec, err := h.sessionService(r).Get(r.Context())
	if err != nil {
		slog.Error("Failed to read session", "error", err, "client", ClientID(r.Context()), "component", "Auth")
		return nil
	}
	return rec
}
