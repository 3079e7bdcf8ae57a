package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemRequest is one requested line. Quantity 0 lines are dropped by the service;
// negative quantities are rejected there too.
type ItemRequest struct {
	ProductoID    uint   `json:"producto_id"   validate:"required"`
	Cantidad      int    `json:"cantidad"`
	Extras        string `json:"extras"        validate:"max=255"`
	Observaciones string `json:"observaciones" validate:"max=255"`
}

type RegistrarVentaRequest struct {
	MedioPago  string        `json:"medio_pago"  validate:"required,max=30"`
	TipoPedido string        `json:"tipo_pedido" validate:"required,oneof=mesa delivery"`
	Direccion  string        `json:"direccion"   validate:"max=255"`
	EstadoPago string        `json:"estado_pago" validate:"omitempty,oneof=pagado pendiente"`
	PagaCon    int64         `json:"paga_con"`
	Items      []ItemRequest `json:"items"       validate:"required,min=1,dive"`
}

type EditarVentaRequest struct {
	Items []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReponerVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,max=500"`
}

type CobrarVentaRequest struct {
	PagaCon int64 `json:"paga_con"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaItemResponse struct {
	Producto       string `json:"producto"`
	Cantidad       int    `json:"cantidad"`
	PrecioUnitario int64  `json:"precio_unitario"`
	Subtotal       int64  `json:"subtotal"`
	Extras         string `json:"extras,omitempty"`
	Observaciones  string `json:"observaciones,omitempty"`
}

type VentaResponse struct {
	ID               uint                `json:"id"`
	TurnoID          uint                `json:"turno_id"`
	MedioPago        string              `json:"medio_pago"`
	Total            int64               `json:"total"`
	Estado           string              `json:"estado"`
	TipoPedido       string              `json:"tipo_pedido"`
	Direccion        string              `json:"direccion,omitempty"`
	EstadoPago       string              `json:"estado_pago"`
	EstadoCocina     string              `json:"estado_cocina"`
	EstadoDelivery   string              `json:"estado_delivery"`
	PagaCon          int64               `json:"paga_con"`
	Vuelto           int64               `json:"vuelto"`
	Usuario          string              `json:"usuario"`
	Repuesta         bool                `json:"repuesta"`
	RepuestaPor      *string             `json:"repuesta_por,omitempty"`
	RepuestaEn       *time.Time          `json:"repuesta_en,omitempty"`
	MotivoReposicion *string             `json:"motivo_reposicion,omitempty"`
	EliminadaPor     *string             `json:"eliminada_por,omitempty"`
	EliminadaEn      *time.Time          `json:"eliminada_en,omitempty"`
	Items            []VentaItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
}

// RegistroVentaResponse is the receipt returned when a sale is recorded.
type RegistroVentaResponse struct {
	ID     uint  `json:"id"`
	Total  int64 `json:"total"`
	Vuelto int64 `json:"vuelto"`
}
