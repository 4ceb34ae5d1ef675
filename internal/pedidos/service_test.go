package pedidos

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestService_DetalhesSnapshot(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))
	ctx := context.Background()

	p := seedPedido(t, db, "João", "Silva", StatusNovo, "199.90", "Teclado")

	det, err := svc.ObterDetalhesPedidoPorIDEUsuario(ctx, p.PedidoID, "João", "Silva")
	if err != nil {
		t.Fatalf("detalhes: %v", err)
	}
	if det == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if det.PedidoID != p.PedidoID || det.PrimeiroNome != "João" || det.UltimoNome != "Silva" {
		t.Errorf("unexpected snapshot identity: %+v", det)
	}
	if det.Status != StatusNovo {
		t.Errorf("status = %s, want NOVO", det.Status)
	}
	if len(det.NomesProdutos) != 1 || det.NomesProdutos[0] != "Teclado" {
		t.Errorf("produtos = %v", det.NomesProdutos)
	}
	if !det.ValorTotal.Equal(decimal.RequireFromString("199.90")) {
		t.Errorf("valor = %s, want 199.90", det.ValorTotal)
	}
	if det.CriadoEm == "" {
		t.Error("criadoEm not set")
	}
}

func TestService_DetalhesNilOnMismatch(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))
	ctx := context.Background()

	p := seedPedido(t, db, "João", "Silva", StatusNovo, "199.90")

	det, err := svc.ObterDetalhesPedidoPorIDEUsuario(ctx, p.PedidoID, "Maria", "Silva")
	if err != nil {
		t.Fatalf("detalhes: %v", err)
	}
	if det != nil {
		t.Error("expected nil snapshot for wrong name")
	}
}

func TestService_CancelarPedido(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))
	ctx := context.Background()

	p := seedPedido(t, db, "João", "Silva", StatusNovo, "199.90", "Teclado")

	det, err := svc.CancelarPedido(ctx, p.PedidoID, "João", "Silva")
	if err != nil {
		t.Fatalf("cancelar: %v", err)
	}
	if det == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if det.Status != StatusCancelado {
		t.Errorf("snapshot status = %s, want CANCELADO", det.Status)
	}

	var reloaded Pedido
	if err := db.First(&reloaded, "pedido_id = ?", p.PedidoID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != StatusCancelado {
		t.Errorf("persisted status = %s, want CANCELADO", reloaded.Status)
	}
}

// Cancelling an already concluded or cancelled order is a plain overwrite
// that still returns the snapshot.
func TestService_CancelarPedidoJaConcluido(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))
	ctx := context.Background()

	p := seedPedido(t, db, "João", "Silva", StatusConcluido, "80.00")

	det, err := svc.CancelarPedido(ctx, p.PedidoID, "João", "Silva")
	if err != nil {
		t.Fatalf("cancelar: %v", err)
	}
	if det == nil || det.Status != StatusCancelado {
		t.Errorf("expected CANCELADO snapshot, got %+v", det)
	}
}

func TestService_CancelarNilOnMismatch(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(NewRepo(db))
	ctx := context.Background()

	p := seedPedido(t, db, "João", "Silva", StatusNovo, "199.90")

	det, err := svc.CancelarPedido(ctx, p.PedidoID, "João", "Souza")
	if err != nil {
		t.Fatalf("cancelar: %v", err)
	}
	if det != nil {
		t.Error("expected nil for wrong name")
	}

	var reloaded Pedido
	if err := db.First(&reloaded, "pedido_id = ?", p.PedidoID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != StatusNovo {
		t.Errorf("status changed on failed identity check: %s", reloaded.Status)
	}
}

// Money must leave the process as a decimal string, never a binary float.
func TestDetalhesPedido_ValorSerializesAsDecimalString(t *testing.T) {
	det := DetalhesPedido{
		PedidoID:   17,
		ValorTotal: decimal.RequireFromString("199.90"),
		Status:     StatusNovo,
	}
	b, err := json.Marshal(det)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"valorTotal":"199.9"`) && !strings.Contains(string(b), `"valorTotal":"199.90"`) {
		t.Errorf("valorTotal not serialised as decimal string: %s", b)
	}
}
