package handlers

import (
	"net/http"
	"sync"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/cotacao"
	"github.com/lucashb/cotador/internal/httpx"
	"github.com/lucashb/cotador/internal/middleware"
	"github.com/lucashb/cotador/internal/session"
)

// CotacaoHandler lists quotes, shows details with preview totals, and fires
// lifecycle transitions against the remote API.
type CotacaoHandler struct {
	API *api.Client

	// inflight tracks outstanding transition requests per session + quote +
	// action, the server-side equivalent of disabling the button while a
	// request is pending. A second submit while one is outstanding is
	// bounced, not queued.
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewCotacaoHandler(client *api.Client) *CotacaoHandler {
	return &CotacaoHandler{API: client, inflight: make(map[string]struct{})}
}

// List: GET /cotacoes
func (h *CotacaoHandler) List(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	cotacoes, err := h.API.ListCotacoes(r.Context(), cur.Token)
	if err != nil {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadGateway, "failed_to_list_cotacoes", api.Detail(err))
			return
		}
		renderTemplate(w, r, "cotacoes", map[string]any{"Error": remoteErrorMessage(r, err)})
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": cotacoes, "total": len(cotacoes)})
		return
	}
	data := map[string]any{"Cotacoes": cotacoes}
	if msg, ok := middleware.PopFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "cotacoes", data)
}

// Detail: GET /cotacoes/{id}
func (h *CotacaoHandler) Detail(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	id := r.PathValue("id")
	c, err := h.API.GetCotacao(r.Context(), cur.Token, id)
	if err != nil {
		renderTemplate(w, r, "cotacao_detail", map[string]any{"Error": remoteErrorMessage(r, err)})
		return
	}
	status := cotacao.Status(c.Status)
	subtotal, desconto, total := cotacao.Totals(c)
	data := map[string]any{
		"Cotacao":      c,
		"Subtotal":     subtotal,
		"Desconto":     desconto,
		"Total":        total,
		"CanEnviar":    status.CanEnviar(),
		"CanAprovar":   status.CanAprovar(),
		"CanConverter": status.CanConverter(),
	}
	if msg, ok := middleware.PopFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "cotacao_detail", data)
}

// Enviar: POST /cotacoes/{id}/enviar
func (h *CotacaoHandler) Enviar(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, cotacao.AcaoEnviar)
}

// Aprovar: POST /cotacoes/{id}/aprovar
func (h *CotacaoHandler) Aprovar(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, cotacao.AcaoAprovar)
}

// transition fires a lifecycle request after checking the cached status
// allows it. The remote API remains authoritative; on failure the cached
// state is untouched and the detail page re-renders with the message.
func (h *CotacaoHandler) transition(w http.ResponseWriter, r *http.Request, acao cotacao.Acao) {
	cur, _ := session.FromContext(r.Context())
	id := r.PathValue("id")

	if !h.begin(cur.ID, id, acao) {
		middleware.Flash(w, r, "operation_in_flight")
		http.Redirect(w, r, "/cotacoes/"+id, http.StatusSeeOther)
		return
	}
	defer h.end(cur.ID, id, acao)

	c, err := h.API.GetCotacao(r.Context(), cur.Token, id)
	if err != nil {
		h.flashError(w, r, id, err)
		return
	}
	if !cotacao.Status(c.Status).Allows(acao) {
		middleware.Flash(w, r, "generic_error")
		http.Redirect(w, r, "/cotacoes/"+id, http.StatusSeeOther)
		return
	}

	switch acao {
	case cotacao.AcaoEnviar:
		_, err = h.API.EnviarCotacao(r.Context(), cur.Token, id)
		if err == nil {
			middleware.Flash(w, r, "cotacao_enviada")
		}
	case cotacao.AcaoAprovar:
		_, err = h.API.AprovarCotacao(r.Context(), cur.Token, id)
		if err == nil {
			middleware.Flash(w, r, "cotacao_aprovada")
		}
	}
	if err != nil {
		h.flashError(w, r, id, err)
		return
	}
	http.Redirect(w, r, "/cotacoes/"+id, http.StatusSeeOther)
}

// Converter: POST /cotacoes/{id}/converter – on success navigates to the
// order created by the remote API.
func (h *CotacaoHandler) Converter(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	id := r.PathValue("id")

	if !h.begin(cur.ID, id, cotacao.AcaoConverter) {
		middleware.Flash(w, r, "operation_in_flight")
		http.Redirect(w, r, "/cotacoes/"+id, http.StatusSeeOther)
		return
	}
	defer h.end(cur.ID, id, cotacao.AcaoConverter)

	c, err := h.API.GetCotacao(r.Context(), cur.Token, id)
	if err != nil {
		h.flashError(w, r, id, err)
		return
	}
	if !cotacao.Status(c.Status).CanConverter() {
		middleware.Flash(w, r, "generic_error")
		http.Redirect(w, r, "/cotacoes/"+id, http.StatusSeeOther)
		return
	}
	pedido, err := h.API.ConverterEmPedido(r.Context(), cur.Token, id)
	if err != nil {
		h.flashError(w, r, id, err)
		return
	}
	middleware.Flash(w, r, "pedido_criado")
	http.Redirect(w, r, "/pedidos/"+pedido.ID, http.StatusSeeOther)
}

func (h *CotacaoHandler) flashError(w http.ResponseWriter, r *http.Request, id string, err error) {
	middleware.Flash(w, r, remoteErrorMessage(r, err))
	http.Redirect(w, r, "/cotacoes/"+id, http.StatusSeeOther)
}

func (h *CotacaoHandler) begin(sessionID, cotacaoID string, acao cotacao.Acao) bool {
	key := sessionID + "|" + cotacaoID + "|" + string(acao)
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inflight[key]; busy {
		return false
	}
	h.inflight[key] = struct{}{}
	return true
}

func (h *CotacaoHandler) end(sessionID, cotacaoID string, acao cotacao.Acao) {
	key := sessionID + "|" + cotacaoID + "|" + string(acao)
	h.mu.Lock()
	delete(h.inflight, key)
	h.mu.Unlock()
}
