// Package pedidos holds the order domain: the relational entities, the
// narrow query surface the tool layer depends on, and the snapshot shape
// returned to the LLM and the HTTP API.
package pedidos

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StatusPedido is the closed set of order states, persisted and serialised
// by name.
type StatusPedido string

const (
	StatusNovo        StatusPedido = "NOVO"
	StatusEmAndamento StatusPedido = "EM_ANDAMENTO"
	StatusConcluido   StatusPedido = "CONCLUIDO"
	StatusCancelado   StatusPedido = "CANCELADO"
)

// ParseStatus maps a textual name back to its StatusPedido.
func ParseStatus(s string) (StatusPedido, error) {
	switch st := StatusPedido(s); st {
	case StatusNovo, StatusEmAndamento, StatusConcluido, StatusCancelado:
		return st, nil
	}
	return "", fmt.Errorf("status de pedido desconhecido: %q", s)
}

type Usuario struct {
	UsuarioID    int64  `gorm:"column:usuario_id;primaryKey;autoIncrement" json:"usuarioId"`
	PrimeiroNome string `gorm:"column:primeiro_nome" json:"primeiroNome"`
	UltimoNome   string `gorm:"column:ultimo_nome" json:"ultimoNome"`
	Email        string `gorm:"column:email" json:"email"`
}

func (Usuario) TableName() string { return "usuarios" }

type Produto struct {
	ProdutoID int64           `gorm:"column:produto_id;primaryKey;autoIncrement" json:"produtoId"`
	Nome      string          `gorm:"column:nome" json:"nome"`
	Descricao string          `gorm:"column:descricao" json:"descricao"`
	Preco     decimal.Decimal `gorm:"column:preco;type:decimal(10,2)" json:"preco"`
}

func (Produto) TableName() string { return "produtos" }

type Pedido struct {
	PedidoID   int64           `gorm:"column:pedido_id;primaryKey;autoIncrement"`
	UsuarioID  int64           `gorm:"column:usuario_id;not null"`
	Usuario    Usuario         `gorm:"foreignKey:UsuarioID;references:UsuarioID"`
	Produtos   []Produto       `gorm:"many2many:pedidos_produtos;foreignKey:PedidoID;joinForeignKey:pedido_id;references:ProdutoID;joinReferences:produto_id"`
	Status     StatusPedido    `gorm:"column:status;type:varchar(16)"`
	ValorTotal decimal.Decimal `gorm:"column:valor_total;type:decimal(10,2)"`
	CriadoEm   time.Time       `gorm:"column:criado_em"`
}

func (Pedido) TableName() string { return "pedidos" }

// DetalhesPedido is the snapshot the tools and the /pedidos endpoint return.
// ValorTotal marshals as a decimal string — monetary values never travel as
// binary floats.
type DetalhesPedido struct {
	PedidoID      int64           `json:"pedidoId"`
	UsuarioID     int64           `json:"usuarioId"`
	PrimeiroNome  string          `json:"primeiroNome"`
	UltimoNome    string          `json:"ultimoNome"`
	NomesProdutos []string        `json:"nomesProdutos"`
	Status        StatusPedido    `json:"status"`
	ValorTotal    decimal.Decimal `json:"valorTotal"`
	CriadoEm      string          `json:"criadoEm"`
}
