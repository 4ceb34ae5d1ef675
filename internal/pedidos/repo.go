package pedidos

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repo is the query surface the support tools depend on. Lookups that take a
// name pair answer nil for a wrong order id and a wrong name alike, so a
// caller can never probe whether an order exists without the right identity.
type Repo interface {
	ContarPorUsuario(ctx context.Context, usuarioID int64) (int64, error)
	ContarPorStatus(ctx context.Context, status StatusPedido) (int64, error)
	ValorPedidoMaisCaro(ctx context.Context) (*decimal.Decimal, error)
	BuscarPorIDENome(ctx context.Context, pedidoID int64, primeiroNome, ultimoNome string) (*Pedido, error)
	SalvarStatus(ctx context.Context, pedido *Pedido, status StatusPedido) error
}

type GormRepo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) ContarPorUsuario(ctx context.Context, usuarioID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Pedido{}).
		Where("usuario_id = ?", usuarioID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("contando pedidos do usuário %d: %w", usuarioID, err)
	}
	return n, nil
}

func (r *GormRepo) ContarPorStatus(ctx context.Context, status StatusPedido) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Pedido{}).
		Where("status = ?", status).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("contando pedidos com status %s: %w", status, err)
	}
	return n, nil
}

// ValorPedidoMaisCaro returns nil when no orders exist.
func (r *GormRepo) ValorPedidoMaisCaro(ctx context.Context) (*decimal.Decimal, error) {
	var row struct {
		MaxValor decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&Pedido{}).
		Select("MAX(valor_total) AS max_valor").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("buscando valor do pedido mais caro: %w", err)
	}
	if !row.MaxValor.Valid {
		return nil, nil
	}
	d := row.MaxValor.Decimal
	return &d, nil
}

// BuscarPorIDENome fetches an order only when the id and both names match
// exactly. Any mismatch returns nil, indistinguishable from a missing order.
func (r *GormRepo) BuscarPorIDENome(ctx context.Context, pedidoID int64, primeiroNome, ultimoNome string) (*Pedido, error) {
	var p Pedido
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Preload("Produtos").
		Joins("JOIN usuarios ON usuarios.usuario_id = pedidos.usuario_id").
		Where("pedidos.pedido_id = ? AND usuarios.primeiro_nome = ? AND usuarios.ultimo_nome = ?",
			pedidoID, primeiroNome, ultimoNome).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("buscando pedido %d: %w", pedidoID, err)
	}
	// The SQL match may be collation-insensitive depending on the backend;
	// the contract is a byte-exact name match, so verify here.
	if p.Usuario.PrimeiroNome != primeiroNome || p.Usuario.UltimoNome != ultimoNome {
		return nil, nil
	}
	return &p, nil
}

// SalvarStatus persists only the status column; every other field of the row
// is left untouched.
func (r *GormRepo) SalvarStatus(ctx context.Context, pedido *Pedido, status StatusPedido) error {
	err := r.db.WithContext(ctx).Model(&Pedido{}).
		Where("pedido_id = ?", pedido.PedidoID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("salvando status do pedido %d: %w", pedido.PedidoID, err)
	}
	pedido.Status = status
	return nil
}
