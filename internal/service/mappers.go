package service

import (
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/model"
)

const formatoFecha = "2006-01-02"

func turnoToResponse(t *model.Turno) dto.TurnoResponse {
	return dto.TurnoResponse{
		ID:              t.ID,
		Fecha:           t.Fecha.UTC().Format(formatoFecha),
		Estado:          string(t.Estado),
		Total:           t.Total,
		UsuarioApertura: t.UsuarioApertura,
		UsuarioCierre:   t.UsuarioCierre,
		AbiertoEn:       t.AbiertoEn,
		CerradoEn:       t.CerradoEn,
	}
}

func productosToResponse(rows []model.ProductoVendido) []dto.ProductoVendidoResponse {
	out := make([]dto.ProductoVendidoResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.ProductoVendidoResponse{Producto: r.Producto, Cantidad: r.Cantidad, Total: r.Total}
	}
	return out
}

func itemToResponse(it model.VentaItem) dto.VentaItemResponse {
	return dto.VentaItemResponse{
		Producto:       it.Producto,
		Cantidad:       it.Cantidad,
		PrecioUnitario: it.PrecioUnitario,
		Subtotal:       it.Subtotal(),
		Extras:         it.Extras,
		Observaciones:  it.Observaciones,
	}
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	items := make([]dto.VentaItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = itemToResponse(it)
	}
	return dto.VentaResponse{
		ID:               v.ID,
		TurnoID:          v.TurnoID,
		MedioPago:        v.MedioPago,
		Total:            v.Total,
		Estado:           string(v.Estado),
		TipoPedido:       string(v.TipoPedido),
		Direccion:        v.Direccion,
		EstadoPago:       string(v.EstadoPago),
		EstadoCocina:     string(v.EstadoCocina),
		EstadoDelivery:   string(v.EstadoDelivery),
		PagaCon:          v.PagaCon,
		Vuelto:           v.Vuelto,
		Usuario:          v.Usuario,
		Repuesta:         v.Repuesta,
		RepuestaPor:      v.RepuestaPor,
		RepuestaEn:       v.RepuestaEn,
		MotivoReposicion: v.MotivoReposicion,
		EliminadaPor:     v.EliminadaPor,
		EliminadaEn:      v.EliminadaEn,
		Items:            items,
		CreatedAt:        v.CreatedAt,
	}
}

func ventasToResponse(ventas []model.Venta) []dto.VentaResponse {
	out := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		out[i] = ventaToResponse(&ventas[i])
	}
	return out
}

func pedidoToResponse(p *model.Pedido) dto.PedidoResponse {
	items := make([]dto.VentaItemResponse, len(p.Items))
	for i, it := range p.Items {
		items[i] = itemToResponse(it.ComoVentaItem())
	}
	return dto.PedidoResponse{
		ID:        p.ID,
		Mesa:      p.Mesa,
		Estado:    string(p.Estado),
		Total:     p.Total,
		VentaID:   p.VentaID,
		Items:     items,
		CreatedAt: p.CreatedAt,
	}
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{ID: u.ID, Username: u.Username, Nombre: u.Nombre, Rol: u.Rol, Activo: u.Activo}
}

// fechaLocal returns the calendar date of t in loc, stored as UTC midnight.
func fechaLocal(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }
