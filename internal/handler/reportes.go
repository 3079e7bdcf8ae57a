package handler

import (
	"net/http"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

func (h *ReportesHandler) Periodo(c *gin.Context) {
	var q dto.RangoQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Periodo(c.Request.Context(), q)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Serie returns a handler bound to one granularity (dia, semana, mes).
func (h *ReportesHandler) Serie(granularidad string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.RangoQuery
		if !bindQuery(c, &q) {
			return
		}
		resp, err := h.svc.Serie(c.Request.Context(), q, granularidad)
		if err != nil {
			fallar(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (h *ReportesHandler) TopProductos(c *gin.Context) {
	var q dto.RangoQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.TopProductos(c.Request.Context(), q)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) PorTipoPedido(c *gin.Context) {
	var q dto.RangoQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.PorTipoPedido(c.Request.Context(), q)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) PorMedioPago(c *gin.Context) {
	var q dto.RangoQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.PorMedioPago(c.Request.Context(), q)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Variacion compares ?periodo=semana (default) or mes against the previous one.
func (h *ReportesHandler) Variacion(c *gin.Context) {
	periodo := c.DefaultQuery("periodo", service.GranularidadSemana)
	resp, err := h.svc.Variacion(c.Request.Context(), periodo)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
