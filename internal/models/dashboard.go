package models

// DashboardResumo mirrors GET /dashboard/ from the remote API.
type DashboardResumo struct {
	CotacoesHoje     int       `json:"cotacoes_hoje"`
	PedidosHoje      int       `json:"pedidos_hoje"`
	PedidosSemana    int       `json:"pedidos_semana"`
	CotacoesRecentes []Cotacao `json:"cotacoes_recentes"`
}
