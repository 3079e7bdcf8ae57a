package handler

import (
	"net/http"

	"github.com/gasttonvargas/facturador-bar/internal/service"

	"github.com/gin-gonic/gin"
)

// MenuHandler serves the public menu used for ordering from the table.
// No authentication and no side effects.
type MenuHandler struct{ svc service.CatalogoService }

func NewMenuHandler(svc service.CatalogoService) *MenuHandler { return &MenuHandler{svc: svc} }

func (h *MenuHandler) Menu(c *gin.Context) {
	resp, err := h.svc.Menu(c.Request.Context())
	if err != nil {
		fallar(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, resp)
}

func (h *MenuHandler) Invalidar(c *gin.Context) {
	if err := h.svc.InvalidarMenu(c.Request.Context()); err != nil {
		fallar(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
