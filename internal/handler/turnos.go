package handler

import (
	"net/http"
	"strconv"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/middleware"
	"github.com/gasttonvargas/facturador-bar/internal/service"

	"github.com/gin-gonic/gin"
)

type TurnosHandler struct{ svc service.TurnoService }

func NewTurnosHandler(svc service.TurnoService) *TurnosHandler { return &TurnosHandler{svc: svc} }

// Actual godoc
// @Summary  Turno actual (lo abre si no existe)
// @Tags     turnos
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} dto.TurnoResponse
// @Router   /v1/turnos/actual [get]
func (h *TurnosHandler) Actual(c *gin.Context) {
	resp, err := h.svc.ObtenerOAbrir(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cerrar godoc
// @Summary  Cerrar el turno actual
// @Tags     turnos
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} dto.CierreTurnoResponse
// @Failure  409 {object} apierror.APIError
// @Router   /v1/turnos/actual/cerrar [post]
func (h *TurnosHandler) Cerrar(c *gin.Context) {
	resp, err := h.svc.Cerrar(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TurnosHandler) Historial(c *gin.Context) {
	limite, _ := strconv.Atoi(c.Query("limite"))
	resp, err := h.svc.Historial(c.Request.Context(), limite)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TurnosHandler) Resumen(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TurnosHandler) Conciliar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Conciliar(c.Request.Context(), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TurnosHandler) CorregirFecha(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CorregirFechaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CorregirFecha(c.Request.Context(), id, req.Fecha)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
