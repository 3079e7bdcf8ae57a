package service

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Publicador emits domain events after a transaction commits. Delivery is best-effort.
type Publicador interface {
	Publicar(ctx context.Context, clave string, payload any) error
}

// Encolador schedules background work that follows a shift close.
type Encolador interface {
	EncolarReporteTurno(ctx context.Context, turnoID uint) error
}

// Routing keys.
const (
	EventoCocinaListo    = "venta.cocina.listo"
	EventoDeliveryPref   = "venta.delivery."
	EventoPedidoCreado   = "pedido.creado"
	EventoPedidoResuelto = "pedido."
	EventoTurnoCerrado   = "turno.cerrado"
)

func publicar(ctx context.Context, p Publicador, clave string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publicar(ctx, clave, payload); err != nil {
		log.Warn().Err(err).Str("clave", clave).Msg("evento no publicado")
	}
}
