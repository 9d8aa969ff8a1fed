package models

import "time"

// Cotacao is a transient copy of a quote as returned by the remote API.
// The API owns persistence; nothing here is written locally.
type Cotacao struct {
	ID                 string        `json:"id"`
	Numero             string        `json:"numero"`
	ClienteID          string        `json:"cliente_id"`
	ObraID             string        `json:"obra_id,omitempty"`
	Status             string        `json:"status"` // rascunho, enviada, aprovada, convertida
	DescontoPercentual float64       `json:"desconto_percentual"`
	Observacoes        string        `json:"observacoes,omitempty"`
	ValidadeDias       int           `json:"validade_dias,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	Itens              []CotacaoItem `json:"itens"`
}

type CotacaoItem struct {
	ID                 string  `json:"id"`
	ProdutoID          string  `json:"produto_id"`
	Quantidade         float64 `json:"quantidade"`
	PrecoUnitario      float64 `json:"preco_unitario"`
	DescontoPercentual float64 `json:"desconto_percentual"`
	ValorTotal         float64 `json:"valor_total"`
}
