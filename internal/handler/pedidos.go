package handler

import (
	"net/http"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/middleware"
	"github.com/gasttonvargas/facturador-bar/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler { return &PedidosHandler{svc: svc} }

// Crear godoc
// @Summary Pedido desde la mesa (sin autenticacion)
// @Tags    pedidos
// @Accept  json
// @Produce json
// @Param   mesa path string                 true "Mesa"
// @Param   body body dto.CrearPedidoRequest true "Ítems"
// @Success 201 {object} dto.PedidoResponse
// @Router  /v1/mesas/{mesa}/pedidos [post]
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), c.Param("mesa"), req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PedidosHandler) Pendientes(c *gin.Context) {
	resp, err := h.svc.Pendientes(c.Request.Context())
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cantidad is what the cashier screen polls to notice new orders.
func (h *PedidosHandler) Cantidad(c *gin.Context) {
	n, err := h.svc.CantidadPendientes(c.Request.Context())
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cantidad": n})
}

func (h *PedidosHandler) Confirmar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ConfirmarEnTurnoActual(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PedidosHandler) Cancelar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
