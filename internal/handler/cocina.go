package handler

import (
	"net/http"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/service"

	"github.com/gin-gonic/gin"
)

type CocinaHandler struct{ svc service.CocinaService }

func NewCocinaHandler(svc service.CocinaService) *CocinaHandler { return &CocinaHandler{svc: svc} }

func (h *CocinaHandler) Cola(c *gin.Context) {
	resp, err := h.svc.Cola(c.Request.Context())
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CocinaHandler) MarcarListo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.MarcarListo(c.Request.Context(), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CocinaHandler) Delivery(c *gin.Context) {
	resp, err := h.svc.Delivery(c.Request.Context())
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CocinaHandler) AvanzarDelivery(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.AvanzarDelivery(c.Request.Context(), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CocinaHandler) MoverDelivery(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.MoverDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MoverDelivery(c.Request.Context(), id, req.Estado)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
