package handlers

import (
	"net/http"
	"strings"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/httpx"
	"github.com/lucashb/cotador/internal/middleware"
	"github.com/lucashb/cotador/internal/models"
	"github.com/lucashb/cotador/internal/session"
)

type ClienteHandler struct {
	API *api.Client
}

func NewClienteHandler(client *api.Client) *ClienteHandler { return &ClienteHandler{API: client} }

// List: GET /clientes – search + list, HTML or JSON.
func (h *ClienteHandler) List(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	clientes, err := h.API.ListClientes(r.Context(), cur.Token, q)
	if err != nil {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadGateway, "failed_to_list_clientes", api.Detail(err))
			return
		}
		renderTemplate(w, r, "clientes", map[string]any{"Error": remoteErrorMessage(r, err), "Query": q})
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": clientes, "total": len(clientes)})
		return
	}
	data := map[string]any{"Clientes": clientes, "Query": q}
	if msg, ok := middleware.PopFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "clientes", data)
}

// Create: POST /clientes – form submit; redirects back to the list.
func (h *ClienteHandler) Create(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	req := api.CriarCliente{
		Nome:      strings.TrimSpace(r.FormValue("nome")),
		Documento: strings.TrimSpace(r.FormValue("documento")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Telefone:  strings.TrimSpace(r.FormValue("telefone")),
	}
	if req.Nome == "" || req.Documento == "" {
		renderTemplate(w, r, "clientes", map[string]any{"Error": "Nome e documento são obrigatórios", "Form": req, "Query": ""})
		return
	}
	if _, err := h.API.CreateCliente(r.Context(), cur.Token, req); err != nil {
		var clientes []models.Cliente
		if cs, lerr := h.API.ListClientes(r.Context(), cur.Token, ""); lerr == nil {
			clientes = cs
		}
		renderTemplate(w, r, "clientes", map[string]any{"Error": remoteErrorMessage(r, err), "Form": req, "Clientes": clientes, "Query": ""})
		return
	}
	middleware.Flash(w, r, "cliente_criado")
	http.Redirect(w, r, "/clientes", http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
