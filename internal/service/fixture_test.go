package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/infra"
	"github.com/gasttonvargas/facturador-bar/internal/model"
	"github.com/gasttonvargas/facturador-bar/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type eventoPublicado struct {
	clave   string
	payload any
}

type stubPublicador struct {
	mu      sync.Mutex
	eventos []eventoPublicado
}

func (p *stubPublicador) Publicar(_ context.Context, clave string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eventos = append(p.eventos, eventoPublicado{clave: clave, payload: payload})
	return nil
}

func (p *stubPublicador) claves() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.eventos))
	for i, e := range p.eventos {
		out[i] = e.clave
	}
	return out
}

type stubEncolador struct {
	turnos []uint
}

func (e *stubEncolador) EncolarReporteTurno(_ context.Context, turnoID uint) error {
	e.turnos = append(e.turnos, turnoID)
	return nil
}

// ── Fixture ───────────────────────────────────────────────────────────────────

var (
	ahoraFija = time.Date(2026, 10, 18, 21, 30, 0, 0, time.UTC)
	relojFijo = func() time.Time { return ahoraFija }
)

type fixture struct {
	db        *gorm.DB
	turnoRepo repository.TurnoRepository
	ventaRepo repository.VentaRepository
	prodRepo  repository.ProductoRepository
	pedRepo   repository.PedidoRepository

	eventos *stubPublicador
	cola    *stubEncolador

	turnos   *turnoService
	ventas   *ventaService
	pedidos  *pedidoService
	cocina   *cocinaService
	reportes *reporteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := infra.NewDatabase(infra.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(context.Background(), db, infra.DriverSQLite))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

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
	f.turnos.now = relojFijo
	f.ventas = NewVentaService(f.ventaRepo, f.turnoRepo, f.prodRepo, f.turnos).(*ventaService)
	f.ventas.now = relojFijo
	f.pedidos = NewPedidoService(f.pedRepo, f.ventaRepo, f.turnoRepo, f.prodRepo, f.turnos, f.eventos).(*pedidoService)
	f.pedidos.now = relojFijo
	f.cocina = NewCocinaService(f.ventaRepo, f.eventos).(*cocinaService)
	f.reportes = NewReporteService(repository.NewReporteRepository(db), f.turnoRepo, f.prodRepo, f.pedRepo, time.UTC).(*reporteService)
	f.reportes.now = relojFijo
	return f
}

func (f *fixture) producto(t *testing.T, nombre string, precio int64) uint {
	t.Helper()
	p := &model.Producto{Nombre: nombre, Precio: precio, Categoria: "General", Tipo: model.ProductoNormal, Activo: true}
	require.NoError(t, f.prodRepo.Upsert(context.Background(), p))
	got, err := f.prodRepo.ListActivos(context.Background())
	require.NoError(t, err)
	for _, g := range got {
		if g.Nombre == nombre {
			return g.ID
		}
	}
	t.Fatalf("producto %s no creado", nombre)
	return 0
}

func (f *fixture) abrirTurno(t *testing.T) uint {
	t.Helper()
	turno, err := f.turnos.ObtenerOAbrir(context.Background(), "admin")
	require.NoError(t, err)
	return turno.ID
}

// vender records a paid table sale of a single product.
func (f *fixture) vender(t *testing.T, turnoID, productoID uint, cantidad int) *dto.RegistroVentaResponse {
	t.Helper()
	resp, err := f.ventas.Registrar(context.Background(), turnoID, "caja", dto.RegistrarVentaRequest{
		MedioPago:  "efectivo",
		TipoPedido: "mesa",
		Items:      []dto.ItemRequest{{ProductoID: productoID, Cantidad: cantidad}},
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) delivery(t *testing.T, turnoID, productoID uint) uint {
	t.Helper()
	resp, err := f.ventas.Registrar(context.Background(), turnoID, "caja", dto.RegistrarVentaRequest{
		MedioPago:  "efectivo",
		TipoPedido: "delivery",
		Direccion:  "San Martín 123",
		EstadoPago: "pendiente",
		Items:      []dto.ItemRequest{{ProductoID: productoID, Cantidad: 1}},
	})
	require.NoError(t, err)
	return resp.ID
}
