// Package httpapi is the HTTP edge of the service: the chat endpoint plus the
// read-only order endpoints. It owns status-code mapping and nothing else —
// all behaviour lives in the agent and the pedidos service.
package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/occhi/vendafacil/internal/pedidos"
)

// Responder is the agent surface the chat endpoint needs.
type Responder interface {
	Answer(ctx context.Context, sessionID, userMessage string) (string, error)
}

type Handler struct {
	Agent   Responder
	Pedidos *pedidos.Service

	// TotalTimeout caps one whole chat turn, tool rounds included.
	TotalTimeout time.Duration
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// Chat handles GET /chat?sessionId=&message=. The reply body is the assistant
// text as plain UTF-8; a timeout anywhere in the turn maps to 504, any other
// failure to 500. The session id is opaque — it selects a transcript, never
// an identity.
func (h *Handler) Chat(c *gin.Context) {
	sessionID := c.Query("sessionId")
	message := c.Query("message")
	if sessionID == "" || message == "" {
		fail(c, http.StatusBadRequest, "sessionId e message são obrigatórios")
		return
	}

	ctx := c.Request.Context()
	if h.TotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.TotalTimeout)
		defer cancel()
	}

	reply, err := h.Agent.Answer(ctx, sessionID, message)
	if err != nil {
		log.Printf("chat session %s: %v", sessionID, err)
		if errors.Is(err, context.DeadlineExceeded) {
			fail(c, http.StatusGatewayTimeout, "tempo esgotado ao processar a mensagem")
			return
		}
		fail(c, http.StatusInternalServerError, "falha ao processar a mensagem")
		return
	}
	c.String(http.StatusOK, reply)
}

// ContarPedidos handles GET /pedidos/?usuarioId= and returns a bare JSON
// integer.
func (h *Handler) ContarPedidos(c *gin.Context) {
	usuarioID, err := strconv.ParseInt(c.Query("usuarioId"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "usuarioId deve ser um número inteiro")
		return
	}

	n, err := h.Pedidos.ObterQuantidadePedidosPorUsuario(c.Request.Context(), usuarioID)
	if err != nil {
		log.Printf("contar pedidos usuario %d: %v", usuarioID, err)
		fail(c, http.StatusInternalServerError, "falha ao consultar pedidos")
		return
	}
	c.JSON(http.StatusOK, n)
}

// DetalhesPedido handles GET /pedidos/:pedidoId?primeiroNome=&ultimoNome=.
// The same 404 covers a missing order and a name mismatch.
func (h *Handler) DetalhesPedido(c *gin.Context) {
	pedidoID, err := strconv.ParseInt(c.Param("pedidoId"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "pedidoId deve ser um número inteiro")
		return
	}
	primeiro := c.Query("primeiroNome")
	ultimo := c.Query("ultimoNome")
	if primeiro == "" || ultimo == "" {
		fail(c, http.StatusBadRequest, "primeiroNome e ultimoNome são obrigatórios")
		return
	}

	det, err := h.Pedidos.ObterDetalhesPedidoPorIDEUsuario(c.Request.Context(), pedidoID, primeiro, ultimo)
	if err != nil {
		log.Printf("detalhes pedido %d: %v", pedidoID, err)
		fail(c, http.StatusInternalServerError, "falha ao consultar o pedido")
		return
	}
	if det == nil {
		fail(c, http.StatusNotFound, "pedido não encontrado")
		return
	}
	c.JSON(http.StatusOK, det)
}
