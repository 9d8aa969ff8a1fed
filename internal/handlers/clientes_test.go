package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucashb/cotador/internal/models"
)

func TestClientesListForwardsSearch(t *testing.T) {
	stub, client := newRemoteStub(t)
	var gotSearch string
	stub.respondFunc("GET /clientes/", func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		w.Header().Set("Content-Type", "application/json")
		_ = encodeJSON(w, []models.Cliente{{ID: "cl1", Nome: "Construtora Alfa", Documento: "12.345.678/0001-00"}})
	})

	h := NewClienteHandler(client)
	r := authedRequest(http.MethodGet, "/clientes?q=alfa", nil)
	w := httptest.NewRecorder()
	h.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alfa", gotSearch)
	assert.Contains(t, w.Body.String(), "Construtora Alfa")
}

func TestClientesListJSON(t *testing.T) {
	stub, client := newRemoteStub(t)
	stub.respond("GET /clientes/", http.StatusOK, []models.Cliente{{ID: "cl1", Nome: "Construtora Alfa"}})

	h := NewClienteHandler(client)
	r := authedRequest(http.MethodGet, "/clientes", nil)
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	h.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestClientesCreateRedirectsWithFlash(t *testing.T) {
	stub, client := newRemoteStub(t)
	stub.respond("POST /clientes/", http.StatusCreated, models.Cliente{ID: "cl2", Nome: "Obra Beta"})

	h := NewClienteHandler(client)
	r := authedRequest(http.MethodPost, "/clientes", url.Values{
		"nome":      {"Obra Beta"},
		"documento": {"98.765.432/0001-00"},
	})
	w := httptest.NewRecorder()
	h.Create(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/clientes", w.Header().Get("Location"))
	assert.NotEmpty(t, flashMessage(t, w.Result()))
}

func TestClientesCreateRequiresNomeAndDocumento(t *testing.T) {
	stub, client := newRemoteStub(t)

	h := NewClienteHandler(client)
	r := authedRequest(http.MethodPost, "/clientes", url.Values{"nome": {"Sem Documento"}})
	w := httptest.NewRecorder()
	h.Create(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "obrigatórios")
	assert.Zero(t, stub.callCount())
}

func TestProdutosListDefaultsToAtivos(t *testing.T) {
	stub, client := newRemoteStub(t)
	var gotAtivo string
	stub.respondFunc("GET /produtos/", func(w http.ResponseWriter, r *http.Request) {
		gotAtivo = r.URL.Query().Get("ativo")
		w.Header().Set("Content-Type", "application/json")
		_ = encodeJSON(w, []models.Produto{{ID: "p1", Nome: "Areia Média", Unidade: "m³", PrecoBase: 120.5, Ativo: true}})
	})

	h := NewProdutoHandler(client)
	r := authedRequest(http.MethodGet, "/produtos", nil)
	w := httptest.NewRecorder()
	h.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", gotAtivo)
	assert.Contains(t, w.Body.String(), "Areia Média")
}

func TestProdutosListTodosIncludesInactive(t *testing.T) {
	stub, client := newRemoteStub(t)
	var gotAtivo string
	stub.respondFunc("GET /produtos/", func(w http.ResponseWriter, r *http.Request) {
		gotAtivo = r.URL.Query().Get("ativo")
		w.Header().Set("Content-Type", "application/json")
		_ = encodeJSON(w, []models.Produto{})
	})

	h := NewProdutoHandler(client)
	r := authedRequest(http.MethodGet, "/produtos?todos=1", nil)
	w := httptest.NewRecorder()
	h.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, gotAtivo)
}
