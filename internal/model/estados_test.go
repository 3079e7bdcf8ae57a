package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstadoVenta_PuedePasarA(t *testing.T) {
	assert.True(t, VentaOK.PuedePasarA(VentaEliminada))
	assert.True(t, VentaEliminada.PuedePasarA(VentaOK))
	assert.False(t, VentaOK.PuedePasarA(VentaOK))
	assert.False(t, VentaEliminada.PuedePasarA(VentaEliminada))
	assert.False(t, EstadoVenta("anulada").PuedePasarA(VentaOK))
}

func TestEstadoDelivery_Siguiente(t *testing.T) {
	cases := []struct {
		desde EstadoDelivery
		hacia EstadoDelivery
		ok    bool
	}{
		{DeliveryPendiente, DeliveryListo, true},
		{DeliveryListo, DeliveryEnCamino, true},
		{DeliveryEnCamino, DeliveryEntregado, true},
		{DeliveryEntregado, "", false},
		{DeliveryNoAplica, "", false},
	}
	for _, tc := range cases {
		t.Run(string(tc.desde), func(t *testing.T) {
			next, ok := tc.desde.Siguiente()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.hacia, next)
		})
	}
}

func TestEstadosIniciales(t *testing.T) {
	cocina, delivery := EstadosIniciales(TipoMesa)
	assert.Equal(t, CocinaPendiente, cocina)
	assert.Equal(t, DeliveryNoAplica, delivery)

	cocina, delivery = EstadosIniciales(TipoDelivery)
	assert.Equal(t, CocinaPendiente, cocina)
	assert.Equal(t, DeliveryPendiente, delivery)
}

func TestValid(t *testing.T) {
	assert.True(t, TurnoAbierto.Valid())
	assert.False(t, EstadoTurno("OPEN").Valid())
	assert.True(t, DeliveryNoAplica.Valid())
	assert.False(t, EstadoDelivery("perdido").Valid())
	assert.True(t, ProductoSanguche.Valid())
	assert.False(t, TipoPedido("takeaway").Valid())
	assert.True(t, PagoPendiente.Valid())
	assert.True(t, PedidoCancelado.Valid())
	assert.True(t, CocinaNoAplica.Valid())
}

func TestTotalesYVuelto(t *testing.T) {
	items := []VentaItem{
		{Producto: "Hamburguesa Común", Cantidad: 2, PrecioUnitario: 6500},
		{Producto: "Coca Cola 1.5 LT", Cantidad: 1, PrecioUnitario: 3500},
	}
	total := TotalItems(items)
	assert.Equal(t, int64(16500), total)
	assert.Equal(t, int64(3500), CalcularVuelto(20000, total))
	assert.Equal(t, int64(0), CalcularVuelto(10000, total))
	assert.Equal(t, int64(0), CalcularVuelto(total, total))
}

func TestPedidoItem_ComoVentaItem(t *testing.T) {
	it := PedidoItem{ID: 9, PedidoID: 3, Producto: "Papas", Cantidad: 3, PrecioUnitario: 2500, Extras: "cheddar", Observaciones: "sin sal"}
	v := it.ComoVentaItem()
	assert.Equal(t, VentaItem{Producto: "Papas", Cantidad: 3, PrecioUnitario: 2500, Extras: "cheddar", Observaciones: "sin sal"}, v)
}
