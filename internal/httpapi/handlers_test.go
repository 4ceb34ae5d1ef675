package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/occhi/vendafacil/internal/pedidos"
	"github.com/shopspring/decimal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResponder struct {
	reply string
	err   error

	gotSessionID string
	gotMessage   string
}

func (f *fakeResponder) Answer(ctx context.Context, sessionID, userMessage string) (string, error) {
	f.gotSessionID = sessionID
	f.gotMessage = userMessage
	return f.reply, f.err
}

type stubRepo struct {
	count  int64
	pedido *pedidos.Pedido
	err    error
}

func (r *stubRepo) ContarPorUsuario(ctx context.Context, usuarioID int64) (int64, error) {
	return r.count, r.err
}
func (r *stubRepo) ContarPorStatus(ctx context.Context, status pedidos.StatusPedido) (int64, error) {
	return 0, r.err
}
func (r *stubRepo) ValorPedidoMaisCaro(ctx context.Context) (*decimal.Decimal, error) {
	return nil, r.err
}
func (r *stubRepo) BuscarPorIDENome(ctx context.Context, pedidoID int64, primeiroNome, ultimoNome string) (*pedidos.Pedido, error) {
	if r.err != nil {
		return nil, r.err
	}
	p := r.pedido
	if p == nil || p.PedidoID != pedidoID || p.Usuario.PrimeiroNome != primeiroNome || p.Usuario.UltimoNome != ultimoNome {
		return nil, nil
	}
	return p, nil
}
func (r *stubRepo) SalvarStatus(ctx context.Context, pedido *pedidos.Pedido, status pedidos.StatusPedido) error {
	pedido.Status = status
	return r.err
}

func newTestServer(agent Responder, repo pedidos.Repo) *httptest.Server {
	h := &Handler{
		Agent:   agent,
		Pedidos: pedidos.NewService(repo),
	}
	return httptest.NewServer(NewRouter(h))
}

func get(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var sb strings.Builder
	if _, err := io.Copy(&sb, resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, sb.String(), resp.Header
}

func TestChat_OK(t *testing.T) {
	agent := &fakeResponder{reply: "Você tem 7 pedidos."}
	srv := newTestServer(agent, &stubRepo{})
	defer srv.Close()

	status, body, header := get(t, srv.URL+"/chat?sessionId=s1&message=quantos+pedidos")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", status, body)
	}
	if body != "Você tem 7 pedidos." {
		t.Errorf("body = %q", body)
	}
	if ct := header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q, want text/plain", ct)
	}
	if agent.gotSessionID != "s1" || agent.gotMessage != "quantos pedidos" {
		t.Errorf("agent saw (%q, %q)", agent.gotSessionID, agent.gotMessage)
	}
}

func TestChat_MissingParams(t *testing.T) {
	srv := newTestServer(&fakeResponder{reply: "nunca"}, &stubRepo{})
	defer srv.Close()

	for _, url := range []string{
		"/chat",
		"/chat?sessionId=s1",
		"/chat?message=oi",
		"/chat?sessionId=&message=oi",
	} {
		status, _, _ := get(t, srv.URL+url)
		if status != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", url, status)
		}
	}
}

func TestChat_AgentErrorIs500(t *testing.T) {
	srv := newTestServer(&fakeResponder{err: errors.New("llm chat: upstream indisponível")}, &stubRepo{})
	defer srv.Close()

	status, body, _ := get(t, srv.URL+"/chat?sessionId=s1&message=oi")
	if status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 (%s)", status, body)
	}
}

func TestChat_DeadlineIs504(t *testing.T) {
	err := fmt.Errorf("llm chat: %w", context.DeadlineExceeded)
	srv := newTestServer(&fakeResponder{err: err}, &stubRepo{})
	defer srv.Close()

	status, _, _ := get(t, srv.URL+"/chat?sessionId=s1&message=oi")
	if status != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", status)
	}
}

func TestContarPedidos(t *testing.T) {
	srv := newTestServer(&fakeResponder{}, &stubRepo{count: 7})
	defer srv.Close()

	status, body, _ := get(t, srv.URL+"/pedidos/?usuarioId=3")
	if status != http.StatusOK {
		t.Fatalf("status = %d (%s)", status, body)
	}
	if strings.TrimSpace(body) != "7" {
		t.Errorf("body = %q, want 7", body)
	}

	status, _, _ = get(t, srv.URL+"/pedidos/?usuarioId=abc")
	if status != http.StatusBadRequest {
		t.Errorf("bad usuarioId: status = %d, want 400", status)
	}
	status, _, _ = get(t, srv.URL+"/pedidos/")
	if status != http.StatusBadRequest {
		t.Errorf("missing usuarioId: status = %d, want 400", status)
	}
}

func TestDetalhesPedido(t *testing.T) {
	p := &pedidos.Pedido{
		PedidoID:   17,
		Usuario:    pedidos.Usuario{UsuarioID: 3, PrimeiroNome: "João", UltimoNome: "Silva"},
		Produtos:   []pedidos.Produto{{Nome: "Teclado"}},
		Status:     pedidos.StatusNovo,
		ValorTotal: decimal.RequireFromString("199.90"),
	}
	srv := newTestServer(&fakeResponder{}, &stubRepo{pedido: p})
	defer srv.Close()

	status, body, _ := get(t, srv.URL+"/pedidos/17?primeiroNome=Jo%C3%A3o&ultimoNome=Silva")
	if status != http.StatusOK {
		t.Fatalf("status = %d (%s)", status, body)
	}
	var det pedidos.DetalhesPedido
	if err := json.Unmarshal([]byte(body), &det); err != nil {
		t.Fatalf("body is not a snapshot: %v\n%s", err, body)
	}
	if det.PedidoID != 17 || det.PrimeiroNome != "João" {
		t.Errorf("snapshot = %+v", det)
	}

	// Name mismatch and unknown order are the same 404.
	status, _, _ = get(t, srv.URL+"/pedidos/17?primeiroNome=Maria&ultimoNome=Silva")
	if status != http.StatusNotFound {
		t.Errorf("wrong name: status = %d, want 404", status)
	}
	status, _, _ = get(t, srv.URL+"/pedidos/999?primeiroNome=Jo%C3%A3o&ultimoNome=Silva")
	if status != http.StatusNotFound {
		t.Errorf("unknown order: status = %d, want 404", status)
	}

	status, _, _ = get(t, srv.URL+"/pedidos/abc?primeiroNome=Jo%C3%A3o&ultimoNome=Silva")
	if status != http.StatusBadRequest {
		t.Errorf("bad pedidoId: status = %d, want 400", status)
	}
	status, _, _ = get(t, srv.URL+"/pedidos/17")
	if status != http.StatusBadRequest {
		t.Errorf("missing names: status = %d, want 400", status)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(&fakeResponder{}, &stubRepo{})
	defer srv.Close()

	_, _, header := get(t, srv.URL+"/ping")
	if header.Get("X-Request-Id") == "" {
		t.Error("response missing X-Request-Id")
	}
}
