package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucashb/cotador/internal/cotacao"
	"github.com/lucashb/cotador/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "t-1", 5*time.Second)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Equal(t, "t-1", body["tenant_id"])
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	})
	tok, err := c.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)
}

func TestLoginFailureCarriesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Email ou senha incorretos"})
	})
	_, err := c.Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Email ou senha incorretos", Detail(err))
}

func TestAuthAndTenantHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "t-1", r.Header.Get("X-Tenant-ID"))
		assert.Equal(t, "busca", r.URL.Query().Get("search"))
		assert.Equal(t, "true", r.URL.Query().Get("ativo"))
		_ = json.NewEncoder(w).Encode([]models.Produto{{ID: "P1", Nome: "Cimento", PrecoBase: 32.9, Ativo: true}})
	})
	ps, err := c.ListProdutos(context.Background(), "tok-123", "busca", true)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "Cimento", ps[0].Nome)
}

func TestCreateCotacao(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cotacoes/", r.URL.Path)
		var req cotacao.CriarRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "C1", req.ClienteID)
		assert.Equal(t, 7, req.ValidadeDias)
		assert.Len(t, req.Itens, 1)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Cotacao{ID: "Q1", Numero: "COT-001", Status: "rascunho"})
	})
	d := cotacao.NewDraft()
	d.SelectCliente("C1", "Constru Silva")
	d.AddItem(models.Produto{ID: "P1", Nome: "Cimento", PrecoBase: 32.9})
	got, err := c.CreateCotacao(context.Background(), "tok", d.Payload())
	require.NoError(t, err)
	assert.Equal(t, "Q1", got.ID)
	assert.Equal(t, "rascunho", got.Status)
}

func TestLifecycleIdempotencyKeyPerAttempt(t *testing.T) {
	var keys []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("X-Idempotency-Key"))
		_ = json.NewEncoder(w).Encode(models.Cotacao{ID: "Q1", Status: "enviada"})
	})
	_, err := c.EnviarCotacao(context.Background(), "tok", "Q1")
	require.NoError(t, err)
	_, err = c.EnviarCotacao(context.Background(), "tok", "Q1")
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.NotEqual(t, keys[0], keys[1], "each attempt must carry its own key")
}

func TestConverterEmPedidoReturnsOrderIdentity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pedidos/from-cotacao/Q1", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Pedido{ID: "O1", Numero: "PED-001", Status: "pendente", CotacaoID: "Q1"})
	})
	ped, err := c.ConverterEmPedido(context.Background(), "tok", "Q1")
	require.NoError(t, err)
	assert.Equal(t, "O1", ped.ID)
	assert.Equal(t, "pendente", ped.Status)
}

func TestDashboard(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dashboard/", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.DashboardResumo{CotacoesHoje: 3, PedidosHoje: 1, PedidosSemana: 5})
	})
	d, err := c.Dashboard(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 3, d.CotacoesHoje)
	assert.Equal(t, 5, d.PedidosSemana)
}

func TestErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.ListCotacoes(context.Background(), "tok")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Detail)
}
