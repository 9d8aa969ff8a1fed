package i18n

import "strings"

// Minimal message catalog, pt (default) and en. Unknown codes fall back to
// the code itself so missing translations stay visible instead of blank.

var messages = map[string]map[string]string{
	"pt": {
		"generic_error":        "Algo deu errado. Tente novamente.",
		"login_failed":         "Não foi possível entrar. Verifique suas credenciais.",
		"required":             "Obrigatório",
		"select_client_items":  "Selecione um cliente e adicione pelo menos um item",
		"operation_in_flight":  "Operação em andamento, aguarde.",
		"cotacao_criada":       "Cotação criada com sucesso",
		"cotacao_enviada":      "Cotação enviada",
		"cotacao_aprovada":     "Cotação aprovada",
		"pedido_criado":        "Pedido criado a partir da cotação",
		"cliente_criado":       "Cliente cadastrado",
		"produto_criado":       "Produto cadastrado",
		"status_rascunho":      "Rascunho",
		"status_enviada":       "Enviada",
		"status_aprovada":      "Aprovada",
		"status_convertida":    "Convertida",
		"status_pendente":      "Pendente",
		"status_em_preparacao": "Em preparação",
		"status_saiu_entrega":  "Saiu para entrega",
		"status_entregue":      "Entregue",
		"status_cancelado":     "Cancelado",
	},
	"en": {
		"generic_error":        "Something went wrong. Please try again.",
		"login_failed":         "Could not sign in. Check your credentials.",
		"required":             "Required",
		"select_client_items":  "Select a client and add at least one item",
		"operation_in_flight":  "Operation in progress, please wait.",
		"cotacao_criada":       "Quote created",
		"cotacao_enviada":      "Quote sent",
		"cotacao_aprovada":     "Quote approved",
		"pedido_criado":        "Order created from quote",
		"cliente_criado":       "Client created",
		"produto_criado":       "Product created",
		"status_rascunho":      "Draft",
		"status_enviada":       "Sent",
		"status_aprovada":      "Approved",
		"status_convertida":    "Converted",
		"status_pendente":      "Pending",
		"status_em_preparacao": "Preparing",
		"status_saiu_entrega":  "Out for delivery",
		"status_entregue":      "Delivered",
		"status_cancelado":     "Cancelled",
	},
}

// T translates code for lang, falling back to pt and then to the code.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages["pt"][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header,
// defaulting to pt.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if tag == "" {
			continue
		}
		base := strings.SplitN(tag, "-", 2)[0]
		if _, ok := messages[base]; ok {
			return base
		}
	}
	return "pt"
}

// StatusLabel translates a lifecycle status wire string for display.
func StatusLabel(lang, status string) string {
	return T(lang, "status_"+status)
}
