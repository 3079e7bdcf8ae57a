package model

// Closed enumerations for the order lifecycle. Values are persisted as-is.

// EstadoTurno: "abierto" | "cerrado". "cerrado" is terminal.
type EstadoTurno string

const (
	TurnoAbierto EstadoTurno = "abierto"
	TurnoCerrado EstadoTurno = "cerrado"
)

func (e EstadoTurno) Valid() bool {
	return e == TurnoAbierto || e == TurnoCerrado
}

// EstadoVenta: "ok" | "eliminada". Deletion is logical and reversible.
type EstadoVenta string

const (
	VentaOK        EstadoVenta = "ok"
	VentaEliminada EstadoVenta = "eliminada"
)

func (e EstadoVenta) Valid() bool {
	return e == VentaOK || e == VentaEliminada
}

// PuedePasarA reports whether a sale may move from e to destino.
// The only legal moves are ok → eliminada (soft delete) and eliminada → ok (reposición).
func (e EstadoVenta) PuedePasarA(destino EstadoVenta) bool {
	switch e {
	case VentaOK:
		return destino == VentaEliminada
	case VentaEliminada:
		return destino == VentaOK
	default:
		return false
	}
}

// TipoPedido: "mesa" | "delivery".
type TipoPedido string

const (
	TipoMesa     TipoPedido = "mesa"
	TipoDelivery TipoPedido = "delivery"
)

func (t TipoPedido) Valid() bool {
	return t == TipoMesa || t == TipoDelivery
}

// EstadoPago: "pagado" | "pendiente".
type EstadoPago string

const (
	PagoPagado    EstadoPago = "pagado"
	PagoPendiente EstadoPago = "pendiente"
)

func (e EstadoPago) Valid() bool {
	return e == PagoPagado || e == PagoPendiente
}

// EstadoCocina: "pendiente" | "listo" | "no_aplica".
type EstadoCocina string

const (
	CocinaPendiente EstadoCocina = "pendiente"
	CocinaListo     EstadoCocina = "listo"
	CocinaNoAplica  EstadoCocina = "no_aplica"
)

func (e EstadoCocina) Valid() bool {
	return e == CocinaPendiente || e == CocinaListo || e == CocinaNoAplica
}

// EstadoDelivery: "pendiente" → "listo" → "en_camino" → "entregado", or "no_aplica" for table orders.
type EstadoDelivery string

const (
	DeliveryPendiente EstadoDelivery = "pendiente"
	DeliveryListo     EstadoDelivery = "listo"
	DeliveryEnCamino  EstadoDelivery = "en_camino"
	DeliveryEntregado EstadoDelivery = "entregado"
	DeliveryNoAplica  EstadoDelivery = "no_aplica"
)

var ordenDelivery = []EstadoDelivery{DeliveryPendiente, DeliveryListo, DeliveryEnCamino, DeliveryEntregado}

func (e EstadoDelivery) Valid() bool {
	return e == DeliveryNoAplica || e.posicion() >= 0
}

func (e EstadoDelivery) posicion() int {
	for i, s := range ordenDelivery {
		if s == e {
			return i
		}
	}
	return -1
}

// Siguiente returns the state that follows e. ok is false for "entregado" and "no_aplica".
func (e EstadoDelivery) Siguiente() (EstadoDelivery, bool) {
	i := e.posicion()
	if i < 0 || i == len(ordenDelivery)-1 {
		return "", false
	}
	return ordenDelivery[i+1], true
}

// EstadosIniciales returns the kitchen and delivery states a new sale starts in.
// Every order goes through the kitchen first; only deliveries track the delivery axis.
func EstadosIniciales(tipo TipoPedido) (EstadoCocina, EstadoDelivery) {
	if tipo == TipoDelivery {
		return CocinaPendiente, DeliveryPendiente
	}
	return CocinaPendiente, DeliveryNoAplica
}

// EstadoPedido: "pendiente" | "confirmado" | "cancelado".
type EstadoPedido string

const (
	PedidoPendiente  EstadoPedido = "pendiente"
	PedidoConfirmado EstadoPedido = "confirmado"
	PedidoCancelado  EstadoPedido = "cancelado"
)

func (e EstadoPedido) Valid() bool {
	return e == PedidoPendiente || e == PedidoConfirmado || e == PedidoCancelado
}

// TipoProducto drives how the POS screen offers extras: "normal" | "sanguche" | "especial".
type TipoProducto string

const (
	ProductoNormal   TipoProducto = "normal"
	ProductoSanguche TipoProducto = "sanguche"
	ProductoEspecial TipoProducto = "especial"
)

func (t TipoProducto) Valid() bool {
	return t == ProductoNormal || t == ProductoSanguche || t == ProductoEspecial
}

// Roles.
const (
	RolAdministrador = "administrador"
	RolCajero        = "cajero"
)

// MedioPagoMesa is the payment method stamped on sales confirmed from a table order.
const MedioPagoMesa = "mesa"
