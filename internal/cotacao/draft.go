package cotacao

import (
	"errors"

	"github.com/lucashb/cotador/internal/models"
)

// Wizard steps, linear. Back-navigation to any earlier step keeps the
// accumulated data.
type Step int

const (
	StepCliente Step = iota + 1
	StepItens
	StepResumo
)

// ValidadeDiasPadrao is the validity period attached to every new quote.
const ValidadeDiasPadrao = 7

var (
	ErrClienteObrigatorio = errors.New("cotacao: selecione um cliente")
	ErrSemItens           = errors.New("cotacao: adicione pelo menos um item")
)

// DraftItem is one line of the quote being assembled.
type DraftItem struct {
	ProdutoID          string  `json:"produto_id"`
	ProdutoNome        string  `json:"produto_nome"`
	Quantidade         float64 `json:"quantidade"`
	PrecoUnitario      float64 `json:"preco_unitario"`
	DescontoPercentual float64 `json:"desconto_percentual"`
}

// Total computes this line's total with its discount applied.
func (it DraftItem) Total() float64 {
	return ItemTotal(it.Quantidade, it.PrecoUnitario, it.DescontoPercentual)
}

// Draft is the wizard state for a quote under construction. It is built
// locally, step by step, and submitted to the remote API in a single write.
type Draft struct {
	Step          Step        `json:"step"`
	ClienteID     string      `json:"cliente_id"`
	ClienteNome   string      `json:"cliente_nome"`
	Itens         []DraftItem `json:"itens"`
	DescontoGeral float64     `json:"desconto_geral"`
	Observacoes   string      `json:"observacoes"`
}

// NewDraft starts an empty draft at the client-selection step.
func NewDraft() *Draft {
	return &Draft{Step: StepCliente}
}

// SelectCliente records the chosen client. Exactly one client is kept.
func (d *Draft) SelectCliente(id, nome string) {
	d.ClienteID = id
	d.ClienteNome = nome
}

// AddItem merges a product into the draft. Adding a product already present
// increments its quantity by 1 instead of creating a duplicate row; a new
// product is seeded with quantity 1, its base price, and zero discount.
func (d *Draft) AddItem(p models.Produto) {
	for i := range d.Itens {
		if d.Itens[i].ProdutoID == p.ID {
			d.Itens[i].Quantidade++
			return
		}
	}
	d.Itens = append(d.Itens, DraftItem{
		ProdutoID:     p.ID,
		ProdutoNome:   p.Nome,
		Quantidade:    1,
		PrecoUnitario: p.PrecoBase,
	})
}

// RemoveItem drops the line for produtoID. Removing an absent product is a
// no-op.
func (d *Draft) RemoveItem(produtoID string) {
	for i := range d.Itens {
		if d.Itens[i].ProdutoID == produtoID {
			d.Itens = append(d.Itens[:i], d.Itens[i+1:]...)
			return
		}
	}
}

// UpdateQuantidade sets a line's quantity, clamped to > 0.
func (d *Draft) UpdateQuantidade(produtoID string, quantidade float64) {
	if it := d.item(produtoID); it != nil {
		it.Quantidade = clampQuantidade(quantidade)
	}
}

// UpdatePreco sets a line's unit price, clamped to >= 0.
func (d *Draft) UpdatePreco(produtoID string, preco float64) {
	if it := d.item(produtoID); it != nil {
		if preco < 0 {
			preco = 0
		}
		it.PrecoUnitario = preco
	}
}

// UpdateDesconto sets a line's discount percentage, clamped to [0,100].
func (d *Draft) UpdateDesconto(produtoID string, desconto float64) {
	if it := d.item(produtoID); it != nil {
		it.DescontoPercentual = clampPercentual(desconto)
	}
}

// SetDescontoGeral sets the quote-level discount, clamped to [0,100].
func (d *Draft) SetDescontoGeral(desconto float64) {
	d.DescontoGeral = clampPercentual(desconto)
}

func (d *Draft) item(produtoID string) *DraftItem {
	for i := range d.Itens {
		if d.Itens[i].ProdutoID == produtoID {
			return &d.Itens[i]
		}
	}
	return nil
}

// Subtotal is the sum of all line totals before the overall discount.
func (d *Draft) Subtotal() float64 {
	var sum float64
	for _, it := range d.Itens {
		sum += it.Total()
	}
	return sum
}

// Total applies the overall discount to the subtotal.
func (d *Draft) Total() float64 {
	sub := d.Subtotal()
	return sub - sub*(d.DescontoGeral/100)
}

// Avancar moves to the next step when the current step's guard passes.
func (d *Draft) Avancar() error {
	switch d.Step {
	case StepCliente:
		if d.ClienteID == "" {
			return ErrClienteObrigatorio
		}
		d.Step = StepItens
	case StepItens:
		if len(d.Itens) == 0 {
			return ErrSemItens
		}
		d.Step = StepResumo
	}
	return nil
}

// Voltar moves one step back without losing accumulated data.
func (d *Draft) Voltar() {
	if d.Step > StepCliente {
		d.Step--
	}
}

// Validate checks the submission guards: a client and at least one item.
func (d *Draft) Validate() error {
	if d.ClienteID == "" {
		return ErrClienteObrigatorio
	}
	if len(d.Itens) == 0 {
		return ErrSemItens
	}
	return nil
}

// CriarItem is one line of the creation request sent to the remote API.
type CriarItem struct {
	ProdutoID          string  `json:"produto_id"`
	Quantidade         float64 `json:"quantidade"`
	PrecoUnitario      float64 `json:"preco_unitario"`
	DescontoPercentual float64 `json:"desconto_percentual"`
}

// CriarRequest is the single-write creation payload (POST /cotacoes/).
type CriarRequest struct {
	ClienteID          string      `json:"cliente_id"`
	DescontoPercentual float64     `json:"desconto_percentual"`
	Observacoes        string      `json:"observacoes"`
	ValidadeDias       int         `json:"validade_dias"`
	Itens              []CriarItem `json:"itens"`
}

// Payload assembles the creation request from the draft. Validate must have
// passed before calling.
func (d *Draft) Payload() CriarRequest {
	req := CriarRequest{
		ClienteID:          d.ClienteID,
		DescontoPercentual: d.DescontoGeral,
		Observacoes:        d.Observacoes,
		ValidadeDias:       ValidadeDiasPadrao,
		Itens:              make([]CriarItem, 0, len(d.Itens)),
	}
	for _, it := range d.Itens {
		req.Itens = append(req.Itens, CriarItem{
			ProdutoID:          it.ProdutoID,
			Quantidade:         it.Quantidade,
			PrecoUnitario:      it.PrecoUnitario,
			DescontoPercentual: it.DescontoPercentual,
		})
	}
	return req
}

func clampPercentual(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampQuantidade(v float64) float64 {
	// Mirrors the smallest increment the quantity input accepts.
	if v <= 0 {
		return 0.001
	}
	return v
}
