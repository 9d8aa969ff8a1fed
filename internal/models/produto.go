package models

import "time"

// Produto entity, read/search only. PrecoBase seeds new quote line items
// and may be overridden per line.
type Produto struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Codigo    string    `json:"codigo,omitempty"`
	PrecoBase float64   `json:"preco_base"`
	Unidade   string    `json:"unidade"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
}
