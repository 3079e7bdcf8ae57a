package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarcarListo_Idempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	agua := f.producto(t, "Agua", 100)
	venta := f.vender(t, turnoID, agua, 1)

	primero, err := f.cocina.MarcarListo(ctx, venta.ID)
	require.NoError(t, err)
	assert.True(t, primero.Cambio)
	assert.Equal(t, "listo", primero.EstadoCocina)

	segundo, err := f.cocina.MarcarListo(ctx, venta.ID)
	require.NoError(t, err)
	assert.False(t, segundo.Cambio)
	assert.Equal(t, "listo", segundo.EstadoCocina)

	assert.Equal(t, []string{EventoCocinaListo}, f.eventos.claves())
}

func TestMarcarListo_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	agua := f.producto(t, "Agua", 100)
	venta := f.vender(t, turnoID, agua, 1)
	require.NoError(t, f.ventas.Eliminar(ctx, venta.ID, "admin"))

	_, err := f.cocina.MarcarListo(ctx, venta.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.cocina.MarcarListo(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoverDelivery_OrdenEstricto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	pizza := f.producto(t, "Pizza", 9000)
	id := f.delivery(t, turnoID, pizza)

	_, err := f.cocina.MoverDelivery(ctx, id, "en_camino")
	assert.ErrorIs(t, err, ErrInvalidState, "no se puede saltear listo")

	igual, err := f.cocina.MoverDelivery(ctx, id, "pendiente")
	require.NoError(t, err)
	assert.False(t, igual.Cambio)

	for _, estado := range []string{"listo", "en_camino", "entregado"} {
		resp, err := f.cocina.MoverDelivery(ctx, id, estado)
		require.NoError(t, err, estado)
		assert.True(t, resp.Cambio)
		assert.Equal(t, estado, resp.EstadoDelivery)
	}

	_, err = f.cocina.MoverDelivery(ctx, id, "listo")
	assert.ErrorIs(t, err, ErrInvalidState, "no se vuelve atrás")

	_, err = f.cocina.MoverDelivery(ctx, id, "no_aplica")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, []string{"venta.delivery.listo", "venta.delivery.en_camino", "venta.delivery.entregado"}, f.eventos.claves())
}

func TestAvanzarDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	pizza := f.producto(t, "Pizza", 9000)
	id := f.delivery(t, turnoID, pizza)

	for _, esperado := range []string{"listo", "en_camino", "entregado"} {
		resp, err := f.cocina.AvanzarDelivery(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, esperado, resp.EstadoDelivery)
	}
	_, err := f.cocina.AvanzarDelivery(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDelivery_VentaDeMesa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	agua := f.producto(t, "Agua", 100)
	venta := f.vender(t, turnoID, agua, 1)

	_, err := f.cocina.MoverDelivery(ctx, venta.ID, "listo")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = f.cocina.AvanzarDelivery(ctx, venta.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTablerosCocinaYDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	agua := f.producto(t, "Agua", 100)
	pizza := f.producto(t, "Pizza", 9000)

	mesa := f.vender(t, turnoID, agua, 1)
	deliveryID := f.delivery(t, turnoID, pizza)

	cola, err := f.cocina.Cola(ctx)
	require.NoError(t, err)
	require.Len(t, cola, 2)
	assert.Equal(t, mesa.ID, cola[0].ID)

	tablero, err := f.cocina.Delivery(ctx)
	require.NoError(t, err)
	assert.Empty(t, tablero, "la cocina todavía no lo despachó")

	_, err = f.cocina.MarcarListo(ctx, deliveryID)
	require.NoError(t, err)

	cola, err = f.cocina.Cola(ctx)
	require.NoError(t, err)
	assert.Len(t, cola, 1)

	tablero, err = f.cocina.Delivery(ctx)
	require.NoError(t, err)
	require.Len(t, tablero, 1)
	assert.Equal(t, deliveryID, tablero[0].ID)
}
