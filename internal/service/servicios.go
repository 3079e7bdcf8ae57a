package service

import (
	"github.com/gasttonvargas/facturador-bar/internal/config"
	"github.com/gasttonvargas/facturador-bar/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Servicios groups every service built over one database.
type Servicios struct {
	Auth     AuthService
	Turnos   TurnoService
	Ventas   VentaService
	Pedidos  PedidoService
	Cocina   CocinaService
	Reportes ReporteService
	Catalogo CatalogoService
}

// NewServicios wires repositories into services.
// rdb, eventos and cola may all be nil.
func NewServicios(cfg *config.Config, db *gorm.DB, rdb *redis.Client, eventos Publicador, cola Encolador) *Servicios {
	loc := cfg.Location()

	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	turnos := NewTurnoService(turnoRepo, ventaRepo, eventos, cola, loc)
	return &Servicios{
		Auth:     NewAuthService(usuarioRepo, cfg),
		Turnos:   turnos,
		Ventas:   NewVentaService(ventaRepo, turnoRepo, productoRepo, turnos),
		Pedidos:  NewPedidoService(pedidoRepo, ventaRepo, turnoRepo, productoRepo, turnos, eventos),
		Cocina:   NewCocinaService(ventaRepo, eventos),
		Reportes: NewReporteService(reporteRepo, turnoRepo, productoRepo, pedidoRepo, loc),
		Catalogo: NewCatalogoService(productoRepo, rdb, cfg.MenuCacheTTL),
	}
}
