package pedidos

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// portTimeout bounds every trip to the relational back end.
const portTimeout = 5 * time.Second

// Service exposes the order operations consumed by the tool registry and the
// /pedidos endpoints, mapping rows to DetalhesPedido snapshots.
type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) ObterQuantidadePedidosPorUsuario(ctx context.Context, usuarioID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, portTimeout)
	defer cancel()
	return s.repo.ContarPorUsuario(ctx, usuarioID)
}

func (s *Service) ObterQuantidadePedidosPorStatus(ctx context.Context, status StatusPedido) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, portTimeout)
	defer cancel()
	return s.repo.ContarPorStatus(ctx, status)
}

// ObterValorPedidoMaisCaro returns nil when there are no orders at all.
func (s *Service) ObterValorPedidoMaisCaro(ctx context.Context) (*decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, portTimeout)
	defer cancel()
	return s.repo.ValorPedidoMaisCaro(ctx)
}

// ObterDetalhesPedidoPorIDEUsuario returns nil on any id/name mismatch.
func (s *Service) ObterDetalhesPedidoPorIDEUsuario(ctx context.Context, pedidoID int64, primeiroNome, ultimoNome string) (*DetalhesPedido, error) {
	ctx, cancel := context.WithTimeout(ctx, portTimeout)
	defer cancel()

	p, err := s.repo.BuscarPorIDENome(ctx, pedidoID, primeiroNome, ultimoNome)
	if err != nil || p == nil {
		return nil, err
	}
	return snapshot(p), nil
}

// CancelarPedido sets the order to CANCELADO and returns the updated
// snapshot. The current status is deliberately not checked: cancelling an
// already cancelled or concluded order just rewrites the status.
func (s *Service) CancelarPedido(ctx context.Context, pedidoID int64, primeiroNome, ultimoNome string) (*DetalhesPedido, error) {
	ctx, cancel := context.WithTimeout(ctx, portTimeout)
	defer cancel()

	p, err := s.repo.BuscarPorIDENome(ctx, pedidoID, primeiroNome, ultimoNome)
	if err != nil || p == nil {
		return nil, err
	}
	if err := s.repo.SalvarStatus(ctx, p, StatusCancelado); err != nil {
		return nil, err
	}
	return snapshot(p), nil
}

func snapshot(p *Pedido) *DetalhesPedido {
	nomes := make([]string, 0, len(p.Produtos))
	for _, prod := range p.Produtos {
		nomes = append(nomes, prod.Nome)
	}
	return &DetalhesPedido{
		PedidoID:      p.PedidoID,
		UsuarioID:     p.Usuario.UsuarioID,
		PrimeiroNome:  p.Usuario.PrimeiroNome,
		UltimoNome:    p.Usuario.UltimoNome,
		NomesProdutos: nomes,
		Status:        p.Status,
		ValorTotal:    p.ValorTotal,
		CriadoEm:      p.CriadoEm.Format(time.RFC3339),
	}
}
