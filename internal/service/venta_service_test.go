package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gasttonvargas/facturador-bar/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func camposDe(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "se esperaba ValidationError, llegó %v", err)
	return verr.Fields
}

func TestRegistrar_TotalYVuelto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	burger := f.producto(t, "Hamburguesa", 6500)
	gaseosa := f.producto(t, "Gaseosa", 2000)

	resp, err := f.ventas.Registrar(ctx, turnoID, "caja", dto.RegistrarVentaRequest{
		MedioPago:  "efectivo",
		TipoPedido: "mesa",
		PagaCon:    20000,
		Items: []dto.ItemRequest{
			{ProductoID: burger, Cantidad: 2, Extras: "cheddar", Observaciones: " sin cebolla "},
			{ProductoID: gaseosa, Cantidad: 1},
			{ProductoID: gaseosa, Cantidad: 0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), resp.Total)
	assert.Equal(t, int64(5000), resp.Vuelto)

	venta, err := f.ventas.Obtener(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, turnoID, venta.TurnoID)
	assert.Equal(t, "ok", venta.Estado)
	assert.Equal(t, "pagado", venta.EstadoPago)
	assert.Equal(t, "pendiente", venta.EstadoCocina)
	assert.Equal(t, "no_aplica", venta.EstadoDelivery)
	assert.Equal(t, "caja", venta.Usuario)
	require.Len(t, venta.Items, 2)
	assert.Equal(t, "Hamburguesa", venta.Items[0].Producto)
	assert.Equal(t, int64(13000), venta.Items[0].Subtotal)
	assert.Equal(t, "sin cebolla", venta.Items[0].Observaciones)
}

func TestRegistrar_PagaConMenorAlTotalNoDaVueltoNegativo(t *testing.T) {
	f := newFixture(t)
	turnoID := f.abrirTurno(t)
	birra := f.producto(t, "Birra", 3000)

	resp, err := f.ventas.Registrar(context.Background(), turnoID, "caja", dto.RegistrarVentaRequest{
		MedioPago: "efectivo", TipoPedido: "mesa", PagaCon: 1000,
		Items: []dto.ItemRequest{{ProductoID: birra, Cantidad: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Vuelto)
}

func TestRegistrar_Delivery(t *testing.T) {
	f := newFixture(t)
	turnoID := f.abrirTurno(t)
	pizza := f.producto(t, "Pizza", 9000)

	id := f.delivery(t, turnoID, pizza)
	venta, err := f.ventas.Obtener(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "delivery", venta.TipoPedido)
	assert.Equal(t, "San Martín 123", venta.Direccion)
	assert.Equal(t, "pendiente", venta.EstadoPago)
	assert.Equal(t, "pendiente", venta.EstadoCocina)
	assert.Equal(t, "pendiente", venta.EstadoDelivery)
}

func TestRegistrar_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	agua := f.producto(t, "Agua", 100)
	inactivo := f.producto(t, "Fernet viejo", 100)
	_, err := f.prodRepo.DesactivarExcepto(ctx, []string{"Agua"})
	require.NoError(t, err)

	cases := []struct {
		name  string
		req   dto.RegistrarVentaRequest
		campo string
	}{
		{
			name:  "sin items",
			req:   dto.RegistrarVentaRequest{MedioPago: "efectivo", TipoPedido: "mesa"},
			campo: "items",
		},
		{
			name: "solo cantidades cero",
			req: dto.RegistrarVentaRequest{MedioPago: "efectivo", TipoPedido: "mesa",
				Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: 0}}},
			campo: "items",
		},
		{
			name: "cantidad negativa",
			req: dto.RegistrarVentaRequest{MedioPago: "efectivo", TipoPedido: "mesa",
				Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: -1}}},
			campo: "items[0].cantidad",
		},
		{
			name: "producto inexistente",
			req: dto.RegistrarVentaRequest{MedioPago: "efectivo", TipoPedido: "mesa",
				Items: []dto.ItemRequest{{ProductoID: 999, Cantidad: 1}}},
			campo: "items[0].producto_id",
		},
		{
			name: "producto inactivo",
			req: dto.RegistrarVentaRequest{MedioPago: "efectivo", TipoPedido: "mesa",
				Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: 1}, {ProductoID: inactivo, Cantidad: 1}}},
			campo: "items[1].producto_id",
		},
		{
			name: "delivery sin direccion",
			req: dto.RegistrarVentaRequest{MedioPago: "efectivo", TipoPedido: "delivery",
				Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: 1}}},
			campo: "direccion",
		},
		{
			name: "paga con negativo",
			req: dto.RegistrarVentaRequest{MedioPago: "efectivo", TipoPedido: "mesa", PagaCon: -5,
				Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: 1}}},
			campo: "paga_con",
		},
		{
			name: "tipo desconocido",
			req: dto.RegistrarVentaRequest{MedioPago: "efectivo", TipoPedido: "barra",
				Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: 1}}},
			campo: "tipo_pedido",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ventas.Registrar(ctx, turnoID, "caja", tc.req)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, camposDe(t, err), tc.campo)
		})
	}

	var n int64
	require.NoError(t, f.db.Table("ventas").Count(&n).Error)
	assert.Zero(t, n)
}

func TestRegistrar_TurnoInexistente(t *testing.T) {
	f := newFixture(t)
	agua := f.producto(t, "Agua", 100)
	_, err := f.ventas.Registrar(context.Background(), 42, "caja", dto.RegistrarVentaRequest{
		MedioPago: "efectivo", TipoPedido: "mesa",
		Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: 1}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistrar_PrecioEsFotoDelMomento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	cafe := f.producto(t, "Café", 1500)
	resp := f.vender(t, turnoID, cafe, 2)

	f.producto(t, "Café", 1800)

	venta, err := f.ventas.Obtener(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), venta.Items[0].PrecioUnitario)
	assert.Equal(t, int64(3000), venta.Total)
}

func TestEditar_ReemplazaItemsYRecalcula(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	agua := f.producto(t, "Agua", 100)
	lomo := f.producto(t, "Lomito", 9000)

	resp, err := f.ventas.Registrar(ctx, turnoID, "caja", dto.RegistrarVentaRequest{
		MedioPago: "efectivo", TipoPedido: "mesa", PagaCon: 500,
		Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(200), resp.Vuelto)

	editada, err := f.ventas.Editar(ctx, resp.ID, dto.EditarVentaRequest{
		Items: []dto.ItemRequest{{ProductoID: lomo, Cantidad: 1}, {ProductoID: agua, Cantidad: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9200), editada.Total)
	assert.Equal(t, int64(200), editada.Vuelto)

	venta, err := f.ventas.Obtener(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9200), venta.Total)
	require.Len(t, venta.Items, 2)
	assert.Equal(t, "Lomito", venta.Items[0].Producto)

	_, err = f.ventas.Editar(ctx, 999, dto.EditarVentaRequest{Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: 1}}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditar_VentaEliminada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	agua := f.producto(t, "Agua", 100)
	resp := f.vender(t, turnoID, agua, 1)
	require.NoError(t, f.ventas.Eliminar(ctx, resp.ID, "admin"))

	_, err := f.ventas.Editar(ctx, resp.ID, dto.EditarVentaRequest{Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: 5}}})
	assert.ErrorIs(t, err, ErrInvalidState)

	venta, err := f.ventas.Obtener(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), venta.Total)
}

func TestEliminarYReponer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	agua := f.producto(t, "Agua", 100)
	cafe := f.producto(t, "Café", 250)

	resp, err := f.ventas.Registrar(ctx, turnoID, "caja", dto.RegistrarVentaRequest{
		MedioPago: "efectivo", TipoPedido: "mesa",
		Items: []dto.ItemRequest{{ProductoID: agua, Cantidad: 1}, {ProductoID: cafe, Cantidad: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, f.ventas.Eliminar(ctx, resp.ID, "admin"))
	eliminada, err := f.ventas.Obtener(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "eliminada", eliminada.Estado)
	require.NotNil(t, eliminada.EliminadaPor)
	assert.Equal(t, "admin", *eliminada.EliminadaPor)
	assert.Len(t, eliminada.Items, 2)

	assert.ErrorIs(t, f.ventas.Eliminar(ctx, resp.ID, "admin"), ErrInvalidState)

	repuesta, err := f.ventas.Reponer(ctx, resp.ID, "admin", "se borró sin querer")
	require.NoError(t, err)
	assert.Equal(t, "ok", repuesta.Estado)
	assert.True(t, repuesta.Repuesta)
	assert.Equal(t, int64(600), repuesta.Total)
	assert.Len(t, repuesta.Items, 2)
	require.NotNil(t, repuesta.RepuestaPor)
	assert.Equal(t, "admin", *repuesta.RepuestaPor)
	require.NotNil(t, repuesta.MotivoReposicion)
	assert.Equal(t, "se borró sin querer", *repuesta.MotivoReposicion)
	assert.NotNil(t, repuesta.RepuestaEn)
}

func TestReponer_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	agua := f.producto(t, "Agua", 100)
	resp := f.vender(t, turnoID, agua, 1)

	_, err := f.ventas.Reponer(ctx, resp.ID, "admin", "motivo")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.ventas.Reponer(ctx, 999, "admin", "motivo")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.ventas.Reponer(ctx, resp.ID, "admin", "  ")
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, camposDe(t, err), "motivo")

	assert.ErrorIs(t, f.ventas.Eliminar(ctx, 999, "admin"), ErrNotFound)
}

func TestCobrar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	pizza := f.producto(t, "Pizza", 9000)
	id := f.delivery(t, turnoID, pizza)

	_, err := f.ventas.Cobrar(ctx, id, -1)
	assert.ErrorIs(t, err, ErrValidation)

	cobrada, err := f.ventas.Cobrar(ctx, id, 10000)
	require.NoError(t, err)
	assert.Equal(t, "pagado", cobrada.EstadoPago)
	assert.Equal(t, int64(10000), cobrada.PagaCon)
	assert.Equal(t, int64(1000), cobrada.Vuelto)

	_, err = f.ventas.Cobrar(ctx, id, 10000)
	assert.ErrorIs(t, err, ErrInvalidState)

	pagada := f.vender(t, turnoID, pizza, 1)
	_, err = f.ventas.Cobrar(ctx, pagada.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestListarPorTurno(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turnoID := f.abrirTurno(t)
	agua := f.producto(t, "Agua", 100)
	f.vender(t, turnoID, agua, 1)
	borrada := f.vender(t, turnoID, agua, 2)
	require.NoError(t, f.ventas.Eliminar(ctx, borrada.ID, "admin"))

	ok, err := f.ventas.ListarPorTurno(ctx, turnoID, false)
	require.NoError(t, err)
	assert.Len(t, ok, 1)

	todas, err := f.ventas.ListarPorTurno(ctx, turnoID, true)
	require.NoError(t, err)
	require.Len(t, todas, 2)
	assert.Equal(t, borrada.ID, todas[0].ID)

	_, err = f.ventas.ListarPorTurno(ctx, 999, true)
	assert.ErrorIs(t, err, ErrNotFound)
}
