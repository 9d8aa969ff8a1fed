package handlers

import (
	"net/http"
	"strings"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/httpx"
	"github.com/lucashb/cotador/internal/i18n"
	"github.com/lucashb/cotador/internal/middleware"
	"github.com/lucashb/cotador/internal/session"
	"github.com/lucashb/cotador/internal/view"
)

type AuthHandler struct {
	Gate *session.Gate
}

func NewAuthHandler(gate *session.Gate) *AuthHandler { return &AuthHandler{Gate: gate} }

// render uses the shared view.Render so layout, partials and funcs apply.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name+".html", data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("template error"))
	}
}

// remoteErrorMessage prefers the server-provided detail and falls back to a
// translated generic message.
func remoteErrorMessage(r *http.Request, err error) string {
	if msg := api.Detail(err); msg != "" {
		return msg
	}
	return i18n.T(middleware.LangFrom(r), "generic_error")
}

// Login handles GET (form) and POST (submit) for /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if _, ok := session.FromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login", nil)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET,POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		renderTemplate(w, r, "login", map[string]any{"Error": i18n.T(middleware.LangFrom(r), "login_failed"), "Email": email})
		return
	}
	if err := h.Gate.Login(r.Context(), w, email, password); err != nil {
		msg := api.Detail(err)
		if msg == "" {
			msg = i18n.T(middleware.LangFrom(r), "login_failed")
		}
		renderTemplate(w, r, "login", map[string]any{"Error": msg, "Email": email})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout clears the local session; the remote API is never called.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Gate.Logout(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
