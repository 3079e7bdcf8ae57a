package router

import (
	"net/http"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/config"
	"github.com/gasttonvargas/facturador-bar/internal/handler"
	"github.com/gasttonvargas/facturador-bar/internal/infra"
	"github.com/gasttonvargas/facturador-bar/internal/middleware"
	"github.com/gasttonvargas/facturador-bar/internal/model"
	"github.com/gasttonvargas/facturador-bar/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs from main.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client         // optional
	Broker    *infra.CircuitBreaker // optional, reported by /health
	Servicios *service.Servicios
}

// Limiters are the per-IP limiters; main purges them periodically.
type Limiters struct {
	Global  *middleware.Limiter
	Login   *middleware.Limiter
	Pedidos *middleware.Limiter
}

func NewLimiters() Limiters {
	return Limiters{
		Global:  middleware.NewLimiter(1000, time.Minute),
		Login:   middleware.NewLimiter(10, time.Minute),
		Pedidos: middleware.NewLimiter(20, time.Minute),
	}
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(d Deps, lim Limiters) *gin.Engine {
	if d.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Order matters: ErrorHandler must run after handlers call c.Error.
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(lim.Global.Middleware("Demasiadas solicitudes"))

	svc := d.Servicios
	authH := handler.NewAuthHandler(svc.Auth)
	turnosH := handler.NewTurnosHandler(svc.Turnos)
	ventasH := handler.NewVentasHandler(svc.Ventas, d.Config.Location())
	pedidosH := handler.NewPedidosHandler(svc.Pedidos)
	cocinaH := handler.NewCocinaHandler(svc.Cocina)
	reportesH := handler.NewReportesHandler(svc.Reportes)
	menuH := handler.NewMenuHandler(svc.Catalogo)

	// ── Public ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(d.DB, d.Redis, d.Broker))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ruta no encontrada"})
	})

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", lim.Login.Middleware("Demasiados intentos de login"), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Customer-facing: menu and ordering from the table.
	r.GET("/v1/menu", menuH.Menu)
	r.POST("/v1/mesas/:mesa/pedidos", lim.Pedidos.Middleware("Demasiados pedidos, espere un momento"), pedidosH.Crear)

	// ── Staff ────────────────────────────────────────────────────────────────
	staff := middleware.RequireRole(model.RolCajero, model.RolAdministrador)
	admin := middleware.RequireRole(model.RolAdministrador)

	v1 := r.Group("/v1", middleware.JWTAuth(d.Config.JWTSecret))

	turnos := v1.Group("/turnos")
	{
		turnos.GET("/actual", staff, turnosH.Actual)
		turnos.POST("/actual/cerrar", admin, turnosH.Cerrar)
		turnos.GET("", admin, turnosH.Historial)
		turnos.GET("/:id/resumen", staff, turnosH.Resumen)
		turnos.GET("/:id/conciliacion", admin, turnosH.Conciliar)
		turnos.PATCH("/:id/fecha", admin, turnosH.CorregirFecha)
		turnos.GET("/:id/ventas", staff, ventasH.ListarPorTurno)
	}

	ventas := v1.Group("/ventas", staff)
	{
		ventas.POST("", ventasH.Registrar)
		ventas.GET("/:id", ventasH.Obtener)
		ventas.GET("/:id/comanda", ventasH.Comanda)
		ventas.PUT("/:id/items", ventasH.Editar)
		ventas.DELETE("/:id", ventasH.Eliminar)
		ventas.POST("/:id/cobrar", ventasH.Cobrar)
	}
	v1.POST("/ventas/:id/reponer", admin, ventasH.Reponer)

	pedidos := v1.Group("/pedidos", staff)
	{
		pedidos.GET("", pedidosH.Pendientes)
		pedidos.GET("/cantidad", pedidosH.Cantidad)
		pedidos.POST("/:id/confirmar", pedidosH.Confirmar)
		pedidos.POST("/:id/cancelar", pedidosH.Cancelar)
	}

	cocina := v1.Group("/cocina", staff)
	{
		cocina.GET("", cocinaH.Cola)
		cocina.POST("/:id/listo", cocinaH.MarcarListo)
	}

	delivery := v1.Group("/delivery", staff)
	{
		delivery.GET("", cocinaH.Delivery)
		delivery.POST("/:id/avanzar", cocinaH.AvanzarDelivery)
		delivery.PUT("/:id/estado", cocinaH.MoverDelivery)
	}

	reportes := v1.Group("/reportes", admin)
	{
		reportes.GET("/periodo", reportesH.Periodo)
		reportes.GET("/diario", reportesH.Serie(service.GranularidadDia))
		reportes.GET("/semanal", reportesH.Serie(service.GranularidadSemana))
		reportes.GET("/mensual", reportesH.Serie(service.GranularidadMes))
		reportes.GET("/top-productos", reportesH.TopProductos)
		reportes.GET("/por-tipo", reportesH.PorTipoPedido)
		reportes.GET("/por-medio-pago", reportesH.PorMedioPago)
		reportes.GET("/variacion", reportesH.Variacion)
		reportes.GET("/dashboard", reportesH.Dashboard)
	}

	v1.POST("/usuarios", admin, authH.CrearUsuario)
	v1.POST("/menu/invalidar", admin, menuH.Invalidar)

	return r
}
