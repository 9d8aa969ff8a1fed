package cotacao

import "github.com/lucashb/cotador/internal/models"

// Preview totals. The remote API computes the authoritative figures; these
// reproduce the same formulas for optimistic rendering. Accumulation stays
// in full float64 precision; rounding happens only at display time.

// ItemTotal computes quantidade × preco × (1 − desconto/100).
func ItemTotal(quantidade, precoUnitario, descontoPercentual float64) float64 {
	subtotal := quantidade * precoUnitario
	return subtotal - subtotal*(descontoPercentual/100)
}

// Subtotal sums the line totals of a quote's items.
func Subtotal(itens []models.CotacaoItem) float64 {
	var sum float64
	for _, it := range itens {
		sum += ItemTotal(it.Quantidade, it.PrecoUnitario, it.DescontoPercentual)
	}
	return sum
}

// GrandTotal applies the overall discount to the subtotal.
func GrandTotal(itens []models.CotacaoItem, descontoGeral float64) float64 {
	sub := Subtotal(itens)
	return sub - sub*(descontoGeral/100)
}

// Totals reports subtotal, overall discount amount, and grand total for a
// fetched quote, preferring the API-computed per-line valor_total when
// present so the screen matches the authoritative figures.
func Totals(c *models.Cotacao) (subtotal, desconto, total float64) {
	for _, it := range c.Itens {
		if it.ValorTotal != 0 {
			subtotal += it.ValorTotal
			continue
		}
		subtotal += ItemTotal(it.Quantidade, it.PrecoUnitario, it.DescontoPercentual)
	}
	desconto = subtotal * (c.DescontoPercentual / 100)
	total = subtotal - desconto
	return subtotal, desconto, total
}
