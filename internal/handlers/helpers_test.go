package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/localstore"
	"github.com/lucashb/cotador/internal/session"
)

const (
	testSessionID = "sess-test"
	testToken     = "tok-test"
	testEmail     = "vendas@example.com"
)

// remoteStub is a scripted stand-in for the remote API. Every request it
// receives is recorded as "METHOD /path" before being dispatched.
type remoteStub struct {
	mux *http.ServeMux

	mu    sync.Mutex
	calls []string
}

func newRemoteStub(t *testing.T) (*remoteStub, *api.Client) {
	t.Helper()
	stub := &remoteStub{mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.calls = append(stub.calls, r.Method+" "+r.URL.Path)
		stub.mu.Unlock()
		stub.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return stub, api.New(srv.URL, "tenant-test", 5*time.Second)
}

// respond registers a fixed JSON response for a pattern ("GET /cotacoes/c1").
func (s *remoteStub) respond(pattern string, status int, body any) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	})
}

func (s *remoteStub) respondFunc(pattern string, fn http.HandlerFunc) {
	s.mux.HandleFunc(pattern, fn)
}

func (s *remoteStub) seen(call string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (s *remoteStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func encodeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func newTestStore(t *testing.T) *localstore.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := localstore.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	return store
}

// authedRequest builds a request carrying the test session, the way the
// session middleware would after resolving the cookie.
func authedRequest(method, target string, form url.Values) *http.Request {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	cur := &session.Current{ID: testSessionID, Token: testToken, Email: testEmail}
	return r.WithContext(session.With(r.Context(), cur))
}

// flashMessage returns the decoded flash cookie set on the response, or "".
func flashMessage(t *testing.T, res *http.Response) string {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == "flash" && c.MaxAge >= 0 && c.Value != "" {
			dec, err := url.QueryUnescape(c.Value)
			require.NoError(t, err)
			return dec
		}
	}
	return ""
}
