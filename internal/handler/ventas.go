package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/infra"
	"github.com/gasttonvargas/facturador-bar/internal/middleware"
	"github.com/gasttonvargas/facturador-bar/internal/service"
	"github.com/gasttonvargas/facturador-bar/internal/ticket"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct {
	svc service.VentaService
	loc *time.Location
}

func NewVentasHandler(svc service.VentaService, loc *time.Location) *VentasHandler {
	return &VentasHandler{svc: svc, loc: loc}
}

// Registrar godoc
// @Summary      Registrar una venta en el turno actual
// @Description  Abre el turno del día si no hay uno abierto. Los precios se toman del catálogo al momento de la venta.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.RegistroVentaResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarEnTurnoActual(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VentasHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Comanda renders the kitchen ticket as 32-column text, or as PDF with ?format=pdf.
func (h *VentasHandler) Comanda(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	venta, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		fallar(c, err)
		return
	}
	if c.Query("format") != "pdf" {
		c.String(http.StatusOK, ticket.Comanda(*venta, h.loc))
		return
	}
	var buf bytes.Buffer
	if err := infra.ComandaPDF(&buf, *venta, h.loc); err != nil {
		fallar(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=comanda_%d.pdf", venta.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Editar godoc
// @Summary      Reemplazar los ítems de una venta
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                    true "ID de la venta"
// @Param        body body dto.EditarVentaRequest true "Ítems nuevos"
// @Success      200  {object} dto.VentaResponse
// @Router       /v1/ventas/{id}/items [put]
func (h *VentasHandler) Editar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.EditarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Editar(c.Request.Context(), id, req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		fallar(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VentasHandler) Reponer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ReponerVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reponer(c.Request.Context(), id, middleware.Actor(c), req.Motivo)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Cobrar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CobrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cobrar(c.Request.Context(), id, req.PagaCon)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorTurno lists a shift's sales; ?eliminadas=true includes deleted ones.
func (h *VentasHandler) ListarPorTurno(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorTurno(c.Request.Context(), id, c.Query("eliminadas") == "true")
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
