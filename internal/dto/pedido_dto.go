package dto

import "time"

type CrearPedidoRequest struct {
	Items []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

type PedidoResponse struct {
	ID        uint                `json:"id"`
	Mesa      string              `json:"mesa"`
	Estado    string              `json:"estado"`
	Total     int64               `json:"total"`
	VentaID   *uint               `json:"venta_id,omitempty"`
	Items     []VentaItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

// PedidosPendientesResponse feeds the cashier screen that polls for new table orders.
type PedidosPendientesResponse struct {
	Cantidad int64            `json:"cantidad"`
	Pedidos  []PedidoResponse `json:"pedidos"`
}
