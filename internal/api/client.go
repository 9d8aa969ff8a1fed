package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lucashb/cotador/internal/cotacao"
	"github.com/lucashb/cotador/internal/models"
)

// Client talks to the remote API that owns all persistence and business
// authority. Every call carries the caller's access token; state-changing
// lifecycle calls additionally carry a fresh idempotency key so a retried
// request can be deduplicated server-side.
type Client struct {
	BaseURL    string
	TenantID   string
	HTTPClient *http.Client
}

func New(baseURL, tenantID string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		TenantID:   tenantID,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Error is a failed remote call. Detail carries the server-provided message
// when the response body had one; handlers surface it to the user as-is.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Detail extracts the user-displayable message from err, or "" when err is
// not a remote API error.
func Detail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

type request struct {
	method         string
	path           string
	token          string
	query          url.Values
	body           any
	idempotencyKey string
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	u := c.BaseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return err
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	if c.TenantID != "" {
		httpReq.Header.Set("X-Tenant-ID", c.TenantID)
	}
	if req.idempotencyKey != "" {
		httpReq.Header.Set("X-Idempotency-Key", req.idempotencyKey)
	}
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}

// newIdempotencyKey returns a random token unique to one transition attempt.
func newIdempotencyKey() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("t%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id,omitempty"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	req := request{method: http.MethodPost, path: "/auth/login", body: loginRequest{Email: email, Password: password, TenantID: c.TenantID}}
	if err := c.do(ctx, req, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// --- Clientes ---

func (c *Client) ListClientes(ctx context.Context, token, search string) ([]models.Cliente, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	var out []models.Cliente
	err := c.do(ctx, request{method: http.MethodGet, path: "/clientes/", token: token, query: q}, &out)
	return out, err
}

type CriarCliente struct {
	Nome      string `json:"nome"`
	Documento string `json:"documento"`
	Email     string `json:"email,omitempty"`
	Telefone  string `json:"telefone,omitempty"`
}

func (c *Client) CreateCliente(ctx context.Context, token string, req CriarCliente) (*models.Cliente, error) {
	var out models.Cliente
	err := c.do(ctx, request{method: http.MethodPost, path: "/clientes/", token: token, body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Produtos ---

func (c *Client) ListProdutos(ctx context.Context, token, search string, ativo bool) ([]models.Produto, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if ativo {
		q.Set("ativo", "true")
	}
	var out []models.Produto
	err := c.do(ctx, request{method: http.MethodGet, path: "/produtos/", token: token, query: q}, &out)
	return out, err
}

type CriarProduto struct {
	Nome      string  `json:"nome"`
	Codigo    string  `json:"codigo,omitempty"`
	PrecoBase float64 `json:"preco_base"`
	Unidade   string  `json:"unidade"`
}

func (c *Client) CreateProduto(ctx context.Context, token string, req CriarProduto) (*models.Produto, error) {
	var out models.Produto
	err := c.do(ctx, request{method: http.MethodPost, path: "/produtos/", token: token, body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Cotações ---

func (c *Client) ListCotacoes(ctx context.Context, token string) ([]models.Cotacao, error) {
	var out []models.Cotacao
	err := c.do(ctx, request{method: http.MethodGet, path: "/cotacoes/", token: token}, &out)
	return out, err
}

func (c *Client) GetCotacao(ctx context.Context, token, id string) (*models.Cotacao, error) {
	var out models.Cotacao
	err := c.do(ctx, request{method: http.MethodGet, path: "/cotacoes/" + id, token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCotacao(ctx context.Context, token string, req cotacao.CriarRequest) (*models.Cotacao, error) {
	var out models.Cotacao
	err := c.do(ctx, request{method: http.MethodPost, path: "/cotacoes/", token: token, body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// EnviarCotacao requests the rascunho → enviada transition.
func (c *Client) EnviarCotacao(ctx context.Context, token, id string) (*models.Cotacao, error) {
	var out models.Cotacao
	err := c.do(ctx, request{method: http.MethodPost, path: "/cotacoes/" + id + "/enviar", token: token, idempotencyKey: newIdempotencyKey()}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AprovarCotacao requests the enviada → aprovada transition.
func (c *Client) AprovarCotacao(ctx context.Context, token, id string) (*models.Cotacao, error) {
	var out models.Cotacao
	err := c.do(ctx, request{method: http.MethodPost, path: "/cotacoes/" + id + "/aprovar", token: token, idempotencyKey: newIdempotencyKey()}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ConverterEmPedido converts an approved quote into an order and returns the
// created order, whose id the caller uses for navigation.
func (c *Client) ConverterEmPedido(ctx context.Context, token, cotacaoID string) (*models.Pedido, error) {
	var out models.Pedido
	err := c.do(ctx, request{method: http.MethodPost, path: "/pedidos/from-cotacao/" + cotacaoID, token: token, idempotencyKey: newIdempotencyKey()}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Pedidos ---

func (c *Client) ListPedidos(ctx context.Context, token, statusFilter string) ([]models.Pedido, error) {
	q := url.Values{}
	if statusFilter != "" {
		q.Set("status_filter", statusFilter)
	}
	var out []models.Pedido
	err := c.do(ctx, request{method: http.MethodGet, path: "/pedidos/", token: token, query: q}, &out)
	return out, err
}

func (c *Client) GetPedido(ctx context.Context, token, id string) (*models.Pedido, error) {
	var out models.Pedido
	err := c.do(ctx, request{method: http.MethodGet, path: "/pedidos/" + id, token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Dashboard ---

func (c *Client) Dashboard(ctx context.Context, token string) (*models.DashboardResumo, error) {
	var out models.DashboardResumo
	err := c.do(ctx, request{method: http.MethodGet, path: "/dashboard/", token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
