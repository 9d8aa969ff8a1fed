package handlers

import (
	"net/http"
	"strings"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/cotacao"
	"github.com/lucashb/cotador/internal/httpx"
	"github.com/lucashb/cotador/internal/middleware"
	"github.com/lucashb/cotador/internal/session"
)

type PedidoHandler struct {
	API *api.Client
}

var pedidoStatusOptions = []string{"pendente", "em_preparacao", "saiu_entrega", "entregue", "cancelado"}

func NewPedidoHandler(client *api.Client) *PedidoHandler { return &PedidoHandler{API: client} }

// List: GET /pedidos – optional ?status= filter, passed through to the API.
func (h *PedidoHandler) List(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	pedidos, err := h.API.ListPedidos(r.Context(), cur.Token, status)
	if err != nil {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadGateway, "failed_to_list_pedidos", api.Detail(err))
			return
		}
		renderTemplate(w, r, "pedidos", map[string]any{
			"Error":         remoteErrorMessage(r, err),
			"Status":        status,
			"StatusOptions": pedidoStatusOptions,
		})
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": pedidos, "total": len(pedidos)})
		return
	}
	data := map[string]any{"Pedidos": pedidos, "Status": status, "StatusOptions": pedidoStatusOptions}
	if msg, ok := middleware.PopFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "pedidos", data)
}

// Detail: GET /pedidos/{id}
func (h *PedidoHandler) Detail(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	p, err := h.API.GetPedido(r.Context(), cur.Token, r.PathValue("id"))
	if err != nil {
		renderTemplate(w, r, "pedido_detail", map[string]any{"Error": remoteErrorMessage(r, err)})
		return
	}
	var subtotal float64
	for _, it := range p.Itens {
		if it.ValorTotal != 0 {
			subtotal += it.ValorTotal
			continue
		}
		subtotal += cotacao.ItemTotal(it.Quantidade, it.PrecoUnitario, it.DescontoPercentual)
	}
	desconto := subtotal * (p.DescontoPercentual / 100)
	data := map[string]any{
		"Pedido":   p,
		"Subtotal": subtotal,
		"Desconto": desconto,
		"Total":    subtotal - desconto,
	}
	if msg, ok := middleware.PopFlash(w, r); ok {
		data["Flash"] = msg
	}
	renderTemplate(w, r, "pedido_detail", data)
}
