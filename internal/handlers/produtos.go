package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/httpx"
	"github.com/lucashb/cotador/internal/middleware"
	"github.com/lucashb/cotador/internal/session"
)

type ProdutoHandler struct {
	API *api.Client
}

func NewProdutoHandler(client *api.Client) *ProdutoHandler { return &ProdutoHandler{API: client} }

// List: GET /produtos – search + list; only active products unless
// ?todos=1.
func (h *ProdutoHandler) List(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	somenteAtivos := r.URL.Query().Get("todos") != "1"
	produtos, err := h.API.ListProdutos(r.Context(), cur.Token, q, somenteAtivos)
	if err != nil {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadGateway, "failed_to_list_produtos", api.Detail(err))
			return
		}
		renderTemplate(w, r, "produtos", map[string]any{"Error": remoteErrorMessage(r, err), "Query": q})
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": produtos, "total": len(produtos)})
		return
	}
	data := map[string]any{"Produtos": produtos, "Query": q, "SomenteAtivos": somenteAtivos}
	if msg, ok := middleware.PopFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "produtos", data)
}

// Create: POST /produtos – form submit.
func (h *ProdutoHandler) Create(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	preco, _ := strconv.ParseFloat(r.FormValue("preco_base"), 64)
	req := api.CriarProduto{
		Nome:      strings.TrimSpace(r.FormValue("nome")),
		Codigo:    strings.TrimSpace(r.FormValue("codigo")),
		PrecoBase: preco,
		Unidade:   strings.TrimSpace(r.FormValue("unidade")),
	}
	if req.Nome == "" || req.Unidade == "" || req.PrecoBase < 0 {
		renderTemplate(w, r, "produtos", map[string]any{"Error": "Nome, unidade e preço válido são obrigatórios", "Form": req, "Query": "", "SomenteAtivos": true})
		return
	}
	if _, err := h.API.CreateProduto(r.Context(), cur.Token, req); err != nil {
		renderTemplate(w, r, "produtos", map[string]any{"Error": remoteErrorMessage(r, err), "Form": req, "Query": "", "SomenteAtivos": true})
		return
	}
	middleware.Flash(w, r, "produto_criado")
	http.Redirect(w, r, "/produtos", http.StatusSeeOther)
}
