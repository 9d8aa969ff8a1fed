package models

import "time"

// Pedido is a confirmed order, usually converted from an approved quote.
// Its lifecycle (pendente, em_preparacao, saiu_entrega, entregue, cancelado)
// is owned by the remote API; this application only displays it.
type Pedido struct {
	ID                 string       `json:"id"`
	Numero             string       `json:"numero"`
	CotacaoID          string       `json:"cotacao_id,omitempty"`
	ClienteID          string       `json:"cliente_id"`
	ObraID             string       `json:"obra_id,omitempty"`
	Status             string       `json:"status"`
	DescontoPercentual float64      `json:"desconto_percentual"`
	Observacoes        string       `json:"observacoes,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	EntregueEm         *time.Time   `json:"entregue_em,omitempty"`
	Itens              []PedidoItem `json:"itens"`
}

type PedidoItem struct {
	ID                 string  `json:"id"`
	ProdutoID          string  `json:"produto_id"`
	Quantidade         float64 `json:"quantidade"`
	PrecoUnitario      float64 `json:"preco_unitario"`
	DescontoPercentual float64 `json:"desconto_percentual"`
	ValorTotal         float64 `json:"valor_total"`
}
