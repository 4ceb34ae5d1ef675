package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(RequestID())

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "rota não encontrada")
	})
	r.NoMethod(func(c *gin.Context) {
		fail(c, http.StatusMethodNotAllowed, "método não permitido")
	})

	r.GET("/ping", h.Ping)
	r.GET("/chat", h.Chat)
	r.GET("/pedidos/", h.ContarPedidos)
	r.GET("/pedidos/:pedidoId", h.DetalhesPedido)

	return r
}
