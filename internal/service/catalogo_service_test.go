package service

import (
	"context"
	"testing"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogo(t *testing.T, f *fixture) (*catalogoService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCatalogoService(f.prodRepo, rdb, time.Hour).(*catalogoService), mr
}

var cartaBase = []dto.ProductoCatalogo{
	{Nombre: "Gaseosa", Precio: 2000, Categoria: "Bebidas"},
	{Nombre: "Agua", Precio: 1500, Categoria: "Bebidas"},
	{Nombre: "Lomito completo", Precio: 9500, Categoria: "Sanguches", Tipo: "sanguche"},
}

func TestMenu_AgrupaPorCategoriaYCachea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc, mr := newCatalogo(t, f)

	_, err := svc.Sincronizar(ctx, cartaBase, false)
	require.NoError(t, err)

	menu, err := svc.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu.Categorias, 2)
	assert.Equal(t, "Bebidas", menu.Categorias[0].Categoria)
	require.Len(t, menu.Categorias[0].Productos, 2)
	assert.Equal(t, "Agua", menu.Categorias[0].Productos[0].Nombre)
	assert.Equal(t, "sanguche", menu.Categorias[1].Productos[0].Tipo)
	assert.True(t, mr.Exists(menuCacheKey))

	// served from cache even after the table changes underneath
	require.NoError(t, f.db.Exec("UPDATE productos SET precio = 1").Error)
	cached, err := svc.Menu(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), cached.Categorias[0].Productos[0].Precio)

	require.NoError(t, svc.InvalidarMenu(ctx))
	fresco, err := svc.Menu(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresco.Categorias[0].Productos[0].Precio)
}

func TestMenu_SinRedis(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogoService(f.prodRepo, nil, time.Hour)
	ctx := context.Background()

	menu, err := svc.Menu(ctx)
	require.NoError(t, err)
	assert.Empty(t, menu.Categorias)
	assert.NoError(t, svc.InvalidarMenu(ctx))
}

func TestSincronizar_ReemplazarDesactivaFaltantes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc, mr := newCatalogo(t, f)

	_, err := svc.Sincronizar(ctx, cartaBase, false)
	require.NoError(t, err)
	_, err = svc.Menu(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(menuCacheKey))

	resp, err := svc.Sincronizar(ctx, []dto.ProductoCatalogo{{Nombre: "Agua", Precio: 1600, Categoria: "Bebidas"}}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Actualizados)
	assert.Equal(t, int64(2), resp.Desactivados)
	assert.False(t, mr.Exists(menuCacheKey))

	menu, err := svc.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu.Categorias, 1)
	require.Len(t, menu.Categorias[0].Productos, 1)
	assert.Equal(t, int64(1600), menu.Categorias[0].Productos[0].Precio)
}

func TestSincronizar_Validaciones(t *testing.T) {
	f := newFixture(t)
	svc, _ := newCatalogo(t, f)

	_, err := svc.Sincronizar(context.Background(), []dto.ProductoCatalogo{
		{Nombre: "Agua", Precio: 100, Categoria: "Bebidas"},
		{Nombre: "Agua", Precio: -1, Categoria: "", Tipo: "raro"},
	}, true)
	require.ErrorIs(t, err, ErrValidation)
	fields := camposDe(t, err)
	assert.Contains(t, fields, "productos[1].nombre")
	assert.Contains(t, fields, "productos[1].precio")
	assert.Contains(t, fields, "productos[1].categoria")
	assert.Contains(t, fields, "productos[1].tipo")

	n, err := f.prodRepo.CountActivos(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
