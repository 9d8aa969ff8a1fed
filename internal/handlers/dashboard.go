package handlers

import (
	"net/http"

	"github.com/lucashb/cotador/internal/api"
	"github.com/lucashb/cotador/internal/middleware"
	"github.com/lucashb/cotador/internal/session"
)

type DashboardHandler struct {
	API *api.Client
}

func NewDashboardHandler(client *api.Client) *DashboardHandler { return &DashboardHandler{API: client} }

// Show renders the dashboard straight from the remote aggregation endpoint.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	cur, _ := session.FromContext(r.Context())
	data := map[string]any{"Email": cur.Email}
	if msg, ok := middleware.PopFlash(w, r); ok {
		data["Flash"] = msg
	}
	resumo, err := h.API.Dashboard(r.Context(), cur.Token)
	if err != nil {
		data["Error"] = remoteErrorMessage(r, err)
		renderTemplate(w, r, "dashboard", data)
		return
	}
	data["Resumo"] = resumo
	renderTemplate(w, r, "dashboard", data)
}
