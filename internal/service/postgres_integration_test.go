//go:build integration

package service

// Concurrency checks that SQLite cannot exercise: row locks and the partial
// unique index on open shifts. Run with: go test -tags integration ./internal/service/...

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/infra"
	"github.com/gasttonvargas/facturador-bar/internal/model"
	"github.com/gasttonvargas/facturador-bar/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func newPostgresFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("bar_test"),
		tcPostgres.WithUsername("bar"),
		tcPostgres.WithPassword("bar"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := infra.NewDatabase(infra.DriverPostgres, dsn)
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(ctx, db, infra.DriverPostgres))

	f := &fixture{
		db:        db,
		turnoRepo: repository.NewTurnoRepository(db),
		ventaRepo: repository.NewVentaRepository(db),
		prodRepo:  repository.NewProductoRepository(db),
		pedRepo:   repository.NewPedidoRepository(db),
		eventos:   &stubPublicador{},
		cola:      &stubEncolador{},
	}
	f.turnos = NewTurnoService(f.turnoRepo, f.ventaRepo, f.eventos, f.cola, time.UTC).(*turnoService)
	f.ventas = NewVentaService(f.ventaRepo, f.turnoRepo, f.prodRepo, f.turnos).(*ventaService)
	f.pedidos = NewPedidoService(f.pedRepo, f.ventaRepo, f.turnoRepo, f.prodRepo, f.turnos, f.eventos).(*pedidoService)
	f.cocina = NewCocinaService(f.ventaRepo, f.eventos).(*cocinaService)
	return f
}

func TestPostgres_AperturaConcurrente(t *testing.T) {
	f := newPostgresFixture(t)
	ctx := context.Background()

	const n = 20
	ids := make([]uint, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			turno, err := f.turnos.ObtenerOAbrir(ctx, "caja")
			errs[i] = err
			if err == nil {
				ids[i] = turno.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	var abiertos int64
	require.NoError(t, f.db.Model(&model.Turno{}).Where("estado = ?", model.TurnoAbierto).Count(&abiertos).Error)
	assert.EqualValues(t, 1, abiertos)
}

// Sales racing a close either land before it (and are counted) or fail with
// InvalidState. None may be recorded in the shift after its total was fixed.
func TestPostgres_VentasDuranteElCierre(t *testing.T) {
	f := newPostgresFixture(t)
	ctx := context.Background()
	cafe := f.producto(t, "Café", 1000)
	turnoID := f.abrirTurno(t)

	const n = 30
	var wg sync.WaitGroup
	aceptadas := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.ventas.Registrar(ctx, turnoID, "caja", dto.RegistrarVentaRequest{
				MedioPago: "efectivo", TipoPedido: "mesa",
				Items: []dto.ItemRequest{{ProductoID: cafe, Cantidad: 1}},
			})
			if err != nil {
				assert.True(t, errors.Is(err, ErrInvalidState), "error inesperado: %v", err)
				return
			}
			aceptadas <- resp.Total
		}()
	}
	time.Sleep(5 * time.Millisecond)
	cierre, err := f.turnos.Cerrar(ctx, "admin")
	require.NoError(t, err)
	wg.Wait()
	close(aceptadas)

	var suma int64
	for total := range aceptadas {
		suma += total
	}
	assert.Equal(t, suma, cierre.Turno.Total)

	conc, err := f.turnos.Conciliar(ctx, turnoID)
	require.NoError(t, err)
	assert.Zero(t, conc.Diferencia)
}

func TestPostgres_MarcarListoConcurrente(t *testing.T) {
	f := newPostgresFixture(t)
	ctx := context.Background()
	burger := f.producto(t, "Burger", 6500)
	turnoID := f.abrirTurno(t)
	venta := f.vender(t, turnoID, burger, 1)

	const n = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	cambios := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.cocina.MarcarListo(ctx, venta.ID)
			if !assert.NoError(t, err) {
				return
			}
			if resp.Cambio {
				mu.Lock()
				cambios++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cambios)
	assert.Len(t, f.eventos.claves(), 1)
}
