// Package tools is the static catalogue of functions the LLM may invoke by
// name with JSON arguments. The registry is built once at startup and never
// mutated; dispatch is schema-driven, with no reflection anywhere.
package tools

import (
	"context"
	"encoding/json"

	"github.com/occhi/vendafacil/internal/llm"
	"github.com/occhi/vendafacil/internal/pedidos"
)

// Spec binds a tool name and its JSON schema to a handler. Handlers are pure
// with respect to session state: the only thing they may mutate is the order
// store, through the pedidos service.
type Spec struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     func(ctx context.Context, params map[string]any) (any, error)
}

type Registry struct {
	specs  []Spec
	byName map[string]*Spec
}

// New builds the five support tools over the order service. Tool names are
// part of the prompt contract with the model and must not change.
func New(svc *pedidos.Service) *Registry {
	specs := []Spec{
		{
			Name:        "obterQuantidadePedidosPorUsuario",
			Description: "Retorna a quantidade de pedidos de um usuário pelo ID do usuário.",
			Parameters: objReq(map[string]any{
				"usuarioId": prop("integer", "ID do usuário"),
			}, "usuarioId"),
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				usuarioID, ok := getInt(params, "usuarioId")
				if !ok {
					return nil, badArguments("usuarioId deve ser um número inteiro")
				}
				return svc.ObterQuantidadePedidosPorUsuario(ctx, usuarioID)
			},
		},
		{
			Name:        "obterQuantidadePedidosPorStatus",
			Description: "Retorna a quantidade de pedidos com um determinado status.",
			Parameters: objReq(map[string]any{
				"status": propEnum("Status do pedido",
					string(pedidos.StatusNovo),
					string(pedidos.StatusEmAndamento),
					string(pedidos.StatusConcluido),
					string(pedidos.StatusCancelado)),
			}, "status"),
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				raw, ok := getString(params, "status")
				if !ok {
					return nil, badArguments("status é obrigatório")
				}
				status, err := pedidos.ParseStatus(raw)
				if err != nil {
					return nil, badArguments(err.Error())
				}
				return svc.ObterQuantidadePedidosPorStatus(ctx, status)
			},
		},
		{
			Name:        "obterValorPedidoMaisCaro",
			Description: "Retorna o valor total do pedido mais caro já registrado, ou null se não houver pedidos.",
			Parameters:  obj(nil),
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				return svc.ObterValorPedidoMaisCaro(ctx)
			},
		},
		{
			Name:        "obterDetalhesPedidoPorIdEUsuario",
			Description: "Retorna os detalhes de um pedido. Exige o ID do pedido, o primeiro nome e o último nome do usuário; retorna null se não houver pedido com essa combinação.",
			Parameters: objReq(map[string]any{
				"pedidoId":     prop("integer", "ID do pedido"),
				"primeiroNome": prop("string", "Primeiro nome do usuário"),
				"ultimoNome":   prop("string", "Último nome do usuário"),
			}, "pedidoId", "primeiroNome", "ultimoNome"),
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				pedidoID, primeiro, ultimo, err := identityArgs(params)
				if err != nil {
					return nil, err
				}
				return svc.ObterDetalhesPedidoPorIDEUsuario(ctx, pedidoID, primeiro, ultimo)
			},
		},
		{
			Name:        "cancelarPedido",
			Description: "Cancela um pedido e retorna os detalhes atualizados. Exige o ID do pedido, o primeiro nome e o último nome do usuário; retorna null se não houver pedido com essa combinação.",
			Parameters: objReq(map[string]any{
				"pedidoId":     prop("integer", "ID do pedido"),
				"primeiroNome": prop("string", "Primeiro nome do usuário"),
				"ultimoNome":   prop("string", "Último nome do usuário"),
			}, "pedidoId", "primeiroNome", "ultimoNome"),
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				pedidoID, primeiro, ultimo, err := identityArgs(params)
				if err != nil {
					return nil, err
				}
				return svc.CancelarPedido(ctx, pedidoID, primeiro, ultimo)
			},
		},
	}

	byName := make(map[string]*Spec, len(specs))
	for i := range specs {
		byName[specs[i].Name] = &specs[i]
	}
	return &Registry{specs: specs, byName: byName}
}

// identityArgs extracts the (orderId, firstName, lastName) triple that gates
// access to a single order.
func identityArgs(params map[string]any) (int64, string, string, error) {
	pedidoID, ok := getInt(params, "pedidoId")
	if !ok {
		return 0, "", "", badArguments("pedidoId deve ser um número inteiro")
	}
	primeiro, ok := getString(params, "primeiroNome")
	if !ok || primeiro == "" {
		return 0, "", "", badArguments("primeiroNome é obrigatório")
	}
	ultimo, ok := getString(params, "ultimoNome")
	if !ok || ultimo == "" {
		return 0, "", "", badArguments("ultimoNome é obrigatório")
	}
	return pedidoID, primeiro, ultimo, nil
}

// Specs returns the catalogue in the wire form the LLM client expects.
func (r *Registry) Specs() []llm.Tool {
	out := make([]llm.Tool, len(r.specs))
	for i, s := range r.specs {
		out[i] = llm.Tool{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  s.Parameters,
		}
	}
	return out
}

// Dispatch runs one tool call and returns the JSON payload the model reads.
// Bad arguments, missing orders, and back-end failures all come back as
// payloads the model can reason about; none of them reach the HTTP caller.
func (r *Registry) Dispatch(ctx context.Context, name string, params map[string]any) string {
	spec, ok := r.byName[name]
	if !ok {
		return errPayload("ferramenta desconhecida: " + name)
	}
	result, err := spec.Handler(ctx, params)
	if err != nil {
		return errPayload(err.Error())
	}
	b, err := json.Marshal(result)
	if err != nil {
		return errPayload("falha ao serializar o resultado")
	}
	return string(b)
}

func errPayload(msg string) string {
	b, _ := json.Marshal(map[string]any{"error": msg}) // a string map cannot fail to marshal
	return string(b)
}
