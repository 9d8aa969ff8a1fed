package server

import (
	"log"
	"net/http"
	"time"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/handlers"
	"github.com/lucashb/cotador/internal/httpx"
	"github.com/lucashb/cotador/internal/localstore"
	"github.com/lucashb/cotador/internal/middleware"
	"github.com/lucashb/cotador/internal/session"
)

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(gate *session.Gate, client *api.Client, store *localstore.Store) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	ah := handlers.NewAuthHandler(gate)
	mux.HandleFunc("/login", ah.Login)
	mux.HandleFunc("/logout", ah.Logout)

	dh := handlers.NewDashboardHandler(client)
	mux.Handle("GET /dashboard", session.RequireAuth(http.HandlerFunc(dh.Show)))

	ch := handlers.NewClienteHandler(client)
	mux.Handle("GET /clientes", session.RequireAuth(http.HandlerFunc(ch.List)))
	mux.Handle("POST /clientes", session.RequireAuth(http.HandlerFunc(ch.Create)))

	ph := handlers.NewProdutoHandler(client)
	mux.Handle("GET /produtos", session.RequireAuth(http.HandlerFunc(ph.List)))
	mux.Handle("POST /produtos", session.RequireAuth(http.HandlerFunc(ph.Create)))

	wh := handlers.NewWizardHandler(client, store)
	mux.Handle("GET /cotacoes/nova", session.RequireAuth(http.HandlerFunc(wh.Show)))
	mux.Handle("POST /cotacoes/nova", session.RequireAuth(http.HandlerFunc(wh.Act)))

	qh := handlers.NewCotacaoHandler(client)
	mux.Handle("GET /cotacoes", session.RequireAuth(http.HandlerFunc(qh.List)))
	mux.Handle("GET /cotacoes/{id}", session.RequireAuth(http.HandlerFunc(qh.Detail)))
	mux.Handle("POST /cotacoes/{id}/enviar", session.RequireAuth(http.HandlerFunc(qh.Enviar)))
	mux.Handle("POST /cotacoes/{id}/aprovar", session.RequireAuth(http.HandlerFunc(qh.Aprovar)))
	mux.Handle("POST /cotacoes/{id}/converter", session.RequireAuth(http.HandlerFunc(qh.Converter)))

	oh := handlers.NewPedidoHandler(client)
	mux.Handle("GET /pedidos", session.RequireAuth(http.HandlerFunc(oh.List)))
	mux.Handle("GET /pedidos/{id}", session.RequireAuth(http.HandlerFunc(oh.Detail)))

	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})

	return middleware.Prefs(gate.Middleware(withRecover(withLogging(mux))))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
