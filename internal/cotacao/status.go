package cotacao

import "fmt"

// Status represents the lifecycle state of a quote. The wire strings are
// the ones the remote API uses.
type Status string

const (
	// StatusRascunho indicates the quote has been created but not yet sent.
	StatusRascunho Status = "rascunho"
	// StatusEnviada indicates the quote was sent to the client.
	StatusEnviada Status = "enviada"
	// StatusAprovada indicates the client approved the quote.
	StatusAprovada Status = "aprovada"
	// StatusConvertida indicates the quote was converted into an order.
	StatusConvertida Status = "convertida"
)

// String returns the string representation of the status.
func (s Status) String() string { return string(s) }

// Known reports whether the status is one of the enumerated lifecycle states.
func (s Status) Known() bool {
	switch s {
	case StatusRascunho, StatusEnviada, StatusAprovada, StatusConvertida:
		return true
	}
	return false
}

// Acao is a lifecycle transition requested against the remote API.
type Acao string

const (
	AcaoEnviar    Acao = "enviar"
	AcaoAprovar   Acao = "aprovar"
	AcaoConverter Acao = "converter"
)

// transitions is the full forward-only table. Anything absent is illegal;
// there are no backward transitions.
var transitions = map[Status]map[Acao]Status{
	StatusRascunho: {AcaoEnviar: StatusEnviada},
	StatusEnviada:  {AcaoAprovar: StatusAprovada},
	StatusAprovada: {AcaoConverter: StatusConvertida},
}

// Next returns the status reached by applying acao to s, or an error when
// the transition is not in the table. The remote API remains authoritative;
// this is the local guard that decides which actions are offered at all.
func (s Status) Next(acao Acao) (Status, error) {
	if to, ok := transitions[s][acao]; ok {
		return to, nil
	}
	return s, fmt.Errorf("cotacao: transição inválida %q a partir de %q", acao, s)
}

// Allows reports whether acao may be requested while in status s.
func (s Status) Allows(acao Acao) bool {
	_, ok := transitions[s][acao]
	return ok
}

// CanEnviar reports whether the quote may be sent.
func (s Status) CanEnviar() bool { return s.Allows(AcaoEnviar) }

// CanAprovar reports whether the quote may be approved.
func (s Status) CanAprovar() bool { return s.Allows(AcaoAprovar) }

// CanConverter reports whether the quote may be converted into an order.
func (s Status) CanConverter() bool { return s.Allows(AcaoConverter) }
