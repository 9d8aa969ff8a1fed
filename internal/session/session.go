package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/localstore"
)

type ctxKey string

const (
	cookieName    = "session"
	currentCtxKey = ctxKey("session")
)

// Current is the session value carried through the request context instead
// of an ambient authenticated/unauthenticated flag.
type Current struct {
	ID    string
	Token string
	Email string
}

// Gate holds the login/logout operations. The remote API issues the access
// token; the gate stores it and trusts its presence until a request is
// rejected. No expiry or refresh handling here.
type Gate struct {
	store  *localstore.Store
	client *api.Client
	secret []byte
}

func NewGate(store *localstore.Store, client *api.Client, secret string) *Gate {
	return &Gate{store: store, client: client, secret: []byte(secret)}
}

// Login exchanges credentials with the remote API and, on success, persists
// the returned token and sets the signed session cookie. A failed login
// leaves the store and cookie untouched and returns the remote detail.
func (g *Gate) Login(ctx context.Context, w http.ResponseWriter, email, password string) error {
	token, err := g.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	id := newSessionID()
	if err := g.store.SaveSession(id, token, email); err != nil {
		return err
	}
	g.setCookie(w, id)
	return nil
}

// Logout clears the stored token and the cookie. The remote collaborator is
// not contacted.
func (g *Gate) Logout(w http.ResponseWriter, r *http.Request) {
	if id, ok := g.parse(r); ok {
		_ = g.store.DeleteSession(id)
	}
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

func (g *Gate) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id + "." + g.sign(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

func (g *Gate) sign(id string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// parse validates the cookie signature and returns the session id.
func (g *Gate) parse(r *http.Request) (string, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return "", false
	}
	id, sig := parts[0], parts[1]
	if !hmac.Equal([]byte(sig), []byte(g.sign(id))) {
		return "", false
	}
	return id, true
}

// Resolve returns the current session for the request, checking the store
// so a deleted session (logout elsewhere) stops being honoured.
func (g *Gate) Resolve(r *http.Request) (*Current, bool) {
	id, ok := g.parse(r)
	if !ok {
		return nil, false
	}
	sess, err := g.store.GetSession(id)
	if err != nil || sess == nil {
		return nil, false
	}
	return &Current{ID: sess.ID, Token: sess.Token, Email: sess.Email}, true
}

// Middleware attaches the session value to the request context if present.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cur, ok := g.Resolve(r); ok {
			r = r.WithContext(With(r.Context(), cur))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to /login if not authenticated (HTML) or returns
// 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			accept := r.Header.Get("Accept")
			if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized"}`)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// With stores the session value in context.
func With(ctx context.Context, cur *Current) context.Context {
	return context.WithValue(ctx, currentCtxKey, cur)
}

// FromContext extracts the session value.
func FromContext(ctx context.Context) (*Current, bool) {
	cur, ok := ctx.Value(currentCtxKey).(*Current)
	return cur, ok && cur != nil
}

func newSessionID() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("s%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
