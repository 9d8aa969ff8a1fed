package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/cotacao"
	"github.com/lucashb/cotador/internal/httpx"
	"github.com/lucashb/cotador/internal/localstore"
	"github.com/lucashb/cotador/internal/middleware"
	"github.com/lucashb/cotador/internal/models"
	"github.com/lucashb/cotador/internal/session"
)

// WizardHandler drives the three-step quote builder. The draft lives in the
// local store keyed by session, so every POST mutates it and redirects back
// to GET /cotacoes/nova (post/redirect/get).
type WizardHandler struct {
	API   *api.Client
	Store *localstore.Store
}

func NewWizardHandler(client *api.Client, store *localstore.Store) *WizardHandler {
	return &WizardHandler{API: client, Store: store}
}

func (h *WizardHandler) draft(cur *session.Current) (*cotacao.Draft, error) {
	d, err := h.Store.LoadDraft(cur.ID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = cotacao.NewDraft()
	}
	return d, nil
}

// Show: GET /cotacoes/nova – renders the draft's current step.
func (h *WizardHandler) Show(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	d, err := h.draft(cur)
	if err != nil {
		renderTemplate(w, r, "nova_cotacao", map[string]any{"Error": remoteErrorMessage(r, err), "Step": 0})
		return
	}
	data := map[string]any{"Draft": d, "Step": int(d.Step), "Subtotal": d.Subtotal(), "Total": d.Total()}
	if msg, ok := middleware.PopFlash(w, r); ok {
		data["Flash"] = msg
	}

	switch d.Step {
	case cotacao.StepCliente:
		q := strings.TrimSpace(r.URL.Query().Get("busca_cliente"))
		data["BuscaCliente"] = q
		if clientes, err := h.API.ListClientes(r.Context(), cur.Token, q); err == nil {
			data["Clientes"] = clientes
		} else {
			data["Error"] = remoteErrorMessage(r, err)
		}
	case cotacao.StepItens:
		q := strings.TrimSpace(r.URL.Query().Get("busca_produto"))
		data["BuscaProduto"] = q
		if produtos, err := h.API.ListProdutos(r.Context(), cur.Token, q, true); err == nil {
			data["Produtos"] = produtos
		} else {
			data["Error"] = remoteErrorMessage(r, err)
		}
	}
	renderTemplate(w, r, "nova_cotacao", data)
}

// Act: POST /cotacoes/nova – one form action per wizard operation.
func (h *WizardHandler) Act(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	d, err := h.draft(cur)
	if err != nil {
		renderTemplate(w, r, "nova_cotacao", map[string]any{"Error": remoteErrorMessage(r, err), "Step": 0})
		return
	}

	action := r.FormValue("action")
	switch action {
	case "select-cliente":
		d.SelectCliente(r.FormValue("cliente_id"), r.FormValue("cliente_nome"))
	case "add-item":
		preco, _ := strconv.ParseFloat(r.FormValue("preco_base"), 64)
		d.AddItem(models.Produto{
			ID:        r.FormValue("produto_id"),
			Nome:      r.FormValue("produto_nome"),
			PrecoBase: preco,
		})
	case "remove-item":
		d.RemoveItem(r.FormValue("produto_id"))
	case "update-item":
		h.updateItem(d, r)
	case "avancar":
		if err := d.Avancar(); err != nil {
			_ = h.Store.SaveDraft(cur.ID, d)
			middleware.Flash(w, r, "select_client_items")
			http.Redirect(w, r, "/cotacoes/nova", http.StatusSeeOther)
			return
		}
	case "voltar":
		d.Voltar()
	case "finalizar":
		h.finalizar(w, r, cur, d)
		return
	case "cancelar":
		_ = h.Store.DeleteDraft(cur.ID)
		http.Redirect(w, r, "/cotacoes", http.StatusSeeOther)
		return
	default:
		httpx.JSONError(w, http.StatusBadRequest, "unknown_action", nil)
		return
	}

	if err := h.Store.SaveDraft(cur.ID, d); err != nil {
		renderTemplate(w, r, "nova_cotacao", map[string]any{"Error": remoteErrorMessage(r, err), "Draft": d, "Step": 0})
		return
	}
	http.Redirect(w, r, "/cotacoes/nova", http.StatusSeeOther)
}

func (h *WizardHandler) updateItem(d *cotacao.Draft, r *http.Request) {
	produtoID := r.FormValue("produto_id")
	value, err := strconv.ParseFloat(r.FormValue("value"), 64)
	if err != nil {
		return
	}
	switch r.FormValue("field") {
	case "quantidade":
		d.UpdateQuantidade(produtoID, value)
	case "preco_unitario":
		d.UpdatePreco(produtoID, value)
	case "desconto_percentual":
		d.UpdateDesconto(produtoID, value)
	}
}

// finalizar applies the review-step fields, validates the guards locally
// (no request is sent when they fail), and submits the single creation
// write. A failed remote call leaves the draft untouched.
func (h *WizardHandler) finalizar(w http.ResponseWriter, r *http.Request, cur *session.Current, d *cotacao.Draft) {
	if v := r.FormValue("desconto_geral"); v != "" {
		desc, err := strconv.ParseFloat(v, 64)
		if err == nil {
			d.SetDescontoGeral(desc)
		}
	}
	d.Observacoes = strings.TrimSpace(r.FormValue("observacoes"))

	if err := d.Validate(); err != nil {
		_ = h.Store.SaveDraft(cur.ID, d)
		middleware.Flash(w, r, "select_client_items")
		http.Redirect(w, r, "/cotacoes/nova", http.StatusSeeOther)
		return
	}
	_ = h.Store.SaveDraft(cur.ID, d)

	created, err := h.API.CreateCotacao(r.Context(), cur.Token, d.Payload())
	if err != nil {
		middleware.Flash(w, r, remoteErrorMessage(r, err))
		http.Redirect(w, r, "/cotacoes/nova", http.StatusSeeOther)
		return
	}
	_ = h.Store.DeleteDraft(cur.ID)
	middleware.Flash(w, r, "cotacao_criada")
	http.Redirect(w, r, "/cotacoes/"+created.ID, http.StatusSeeOther)
}
