package models

import "time"

// Cliente entity, read/search only from this application's point of view.
type Cliente struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Documento string    `json:"documento"`
	Email     string    `json:"email,omitempty"`
	Telefone  string    `json:"telefone,omitempty"`
	Endereco  string    `json:"endereco,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
