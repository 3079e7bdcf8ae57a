package dto

type MoverDeliveryRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente listo en_camino entregado"`
}

// TransicionResponse acknowledges a kitchen/delivery transition.
// Cambio is false when the sale was already in the requested state.
type TransicionResponse struct {
	VentaID        uint   `json:"venta_id"`
	EstadoCocina   string `json:"estado_cocina"`
	EstadoDelivery string `json:"estado_delivery"`
	Cambio         bool   `json:"cambio"`
}
