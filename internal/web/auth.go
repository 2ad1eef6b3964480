package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ziadkadry99/agenda-vta/internal/i18n"
	"github.com/ziadkadry99/agenda-vta/internal/session"
)

// loginResponse is the JSON answer to a login POST.
type loginResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url,omitempty"`
	DelayMS     int64  `json:"delay_ms,omitempty"`
}

// loginState is what the login page shows after a POST.
type loginState struct {
	Email    string
	Message  string
	Success  bool
	Redirect string
	DelayMS  int64
}

// RequireSession rejects requests without an active session. Page requests
// are redirected to the login page; API and feed requests get a 401.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := h.currentSession(r)
		if rec == nil {
			h.deny(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), recordKey, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) deny(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		tag := h.lang(w, r)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": i18n.Text(tag, i18n.Unauthenticated)})
		return
	}
	http.Redirect(w, r, h.loginURL(), http.StatusFound)
}

func isAPIRequest(r *http.Request) bool {
	p := r.URL.Path
	return strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/ws/") || wantsJSON(r)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (h *Handler) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	if h.sessionService(r).Active(r.Context()) {
		http.Redirect(w, r, h.dashboardURL(), http.StatusFound)
		return
	}
	h.renderLogin(w, r, http.StatusOK, loginState{})
}

func (h *Handler) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	tag := h.lang(w, r)
	email, senha := loginFields(r)

	if strings.TrimSpace(email) == "" || strings.TrimSpace(senha) == "" {
		h.loginFailed(w, r, http.StatusBadRequest, loginState{Email: email, Message: i18n.Text(tag, i18n.LoginMissingFields)})
		return
	}

	rec, err := session.Authenticate(email, senha)
	if errors.Is(err, session.ErrInvalidCredentials) {
		slog.Info("Login rejected", "client", ClientID(r.Context()), "component", "Auth")
		h.loginFailed(w, r, http.StatusUnauthorized, loginState{Email: email, Message: i18n.Text(tag, i18n.LoginInvalid)})
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.sessionService(r).Set(r.Context(), rec); err != nil {
		slog.Error("Failed to store session", "error", err, "component", "Auth")
		http.Error(w, "failed to store session", http.StatusInternalServerError)
		return
	}
	slog.Info("Login succeeded", "client", ClientID(r.Context()), "user", rec.Nome, "component", "Auth")

	state := loginState{
		Email:    email,
		Message:  i18n.Text(tag, i18n.LoginSuccess),
		Success:  true,
		Redirect: h.dashboardURL(),
		DelayMS:  h.opts.LoginDelay.Milliseconds(),
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, loginResponse{
			Success:     true,
			Message:     state.Message,
			RedirectURL: state.Redirect,
			DelayMS:     state.DelayMS,
		})
		return
	}
	w.Header().Set("Refresh", refreshValue(state))
	h.renderLogin(w, r, http.StatusOK, state)
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, status int, state loginState) {
	if wantsJSON(r) {
		writeJSON(w, status, loginResponse{Message: state.Message})
		return
	}
	h.renderLogin(w, r, status, state)
}

// loginFields reads the credentials from a form or a JSON body. "password"
// is accepted as an alias of "senha".
func loginFields(r *http.Request) (string, string) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Email    string `json:"email"`
			Senha    string `json:"senha"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", ""
		}
		if body.Senha == "" {
			body.Senha = body.Password
		}
		return body.Email, body.Senha
	}
	senha := r.FormValue("senha")
	if senha == "" {
		senha = r.FormValue("password")
	}
	return r.FormValue("email"), senha
}

// refreshValue formats the Refresh header and meta content of a successful
// login.
func refreshValue(s loginState) string {
	secs := strconv.FormatFloat(float64(s.DelayMS)/1000, 'f', -1, 64)
	return secs + "; url=" + s.Redirect
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService(r).Clear(r.Context()); err != nil {
		slog.Error("Failed to clear session", "error", err, "component", "Auth")
	} else {
		slog.Info("Logged out", "client", ClientID(r.Context()), "component", "Auth")
	}
	http.Redirect(w, r, h.loginURL(), http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
