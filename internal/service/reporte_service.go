package service

import (
	"context"
	"errors"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	GranularidadDia    = "dia"
	GranularidadSemana = "semana"
	GranularidadMes    = "mes"

	topPorDefecto = 10
)

// ReporteService answers read-only questions over "ok" sales. Ranges are
// calendar dates in the business time zone, half-open [desde, hasta).
type ReporteService interface {
	Periodo(ctx context.Context, q dto.RangoQuery) (*dto.PeriodoResponse, error)
	Serie(ctx context.Context, q dto.RangoQuery, granularidad string) (*dto.SerieResponse, error)
	TopProductos(ctx context.Context, q dto.RangoQuery) (*dto.TopProductosResponse, error)
	PorTipoPedido(ctx context.Context, q dto.RangoQuery) (*dto.DesgloseResponse, error)
	PorMedioPago(ctx context.Context, q dto.RangoQuery) (*dto.DesgloseResponse, error)
	// Variacion compares the current week or month with the previous one.
	Variacion(ctx context.Context, periodo string) (*dto.VariacionResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type reporteService struct {
	repo      repository.ReporteRepository
	turnos    repository.TurnoRepository
	productos repository.ProductoRepository
	pedidos   repository.PedidoRepository
	loc       *time.Location
	now       func() time.Time
}

func NewReporteService(
	repo repository.ReporteRepository,
	turnos repository.TurnoRepository,
	productos repository.ProductoRepository,
	pedidos repository.PedidoRepository,
	loc *time.Location,
) ReporteService {
	if loc == nil {
		loc = time.UTC
	}
	return &reporteService{repo: repo, turnos: turnos, productos: productos, pedidos: pedidos, loc: loc, now: time.Now}
}

type rango struct{ desde, hasta time.Time }

func (s *reporteService) parsearRango(q dto.RangoQuery) (rango, error) {
	errs := campos{}
	desde, err := time.ParseInLocation(formatoFecha, q.Desde, s.loc)
	if err != nil {
		errs["desde"] = "formato esperado AAAA-MM-DD"
	}
	hasta, err := time.ParseInLocation(formatoFecha, q.Hasta, s.loc)
	if err != nil {
		errs["hasta"] = "formato esperado AAAA-MM-DD"
	}
	if len(errs) == 0 && !desde.Before(hasta) {
		errs["hasta"] = "debe ser posterior a desde"
	}
	return rango{desde: desde, hasta: hasta}, errs.err()
}

func (s *reporteService) Periodo(ctx context.Context, q dto.RangoQuery) (*dto.PeriodoResponse, error) {
	r, err := s.parsearRango(q)
	if err != nil {
		return nil, err
	}
	cantidad, total, err := s.repo.Periodo(ctx, r.desde.UTC(), r.hasta.UTC())
	if err != nil {
		return nil, storeErr(err)
	}
	return &dto.PeriodoResponse{Desde: q.Desde, Hasta: q.Hasta, Cantidad: cantidad, Total: total}, nil
}

// ── Series ────────────────────────────────────────────────────────────────────

func inicioDia(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// inicioSemana returns the Monday that starts t's week.
func inicioSemana(t time.Time, loc *time.Location) time.Time {
	d := inicioDia(t, loc)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func inicioMes(t time.Time, loc *time.Location) time.Time {
	y, m, _ := t.In(loc).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, loc)
}

type bucketer struct {
	inicio    func(time.Time, *time.Location) time.Time
	siguiente func(time.Time) time.Time
}

var bucketers = map[string]bucketer{
	GranularidadDia:    {inicioDia, func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
	GranularidadSemana: {inicioSemana, func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }},
	GranularidadMes:    {inicioMes, func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
}

// Serie buckets sales by day, week (Monday start) or month. Empty buckets are
// included with zero values so charts keep a continuous axis.
func (s *reporteService) Serie(ctx context.Context, q dto.RangoQuery, granularidad string) (*dto.SerieResponse, error) {
	b, ok := bucketers[granularidad]
	if !ok {
		return nil, invalido("granularidad", "debe ser dia, semana o mes")
	}
	r, err := s.parsearRango(q)
	if err != nil {
		return nil, err
	}
	ventas, err := s.repo.VentasEnRango(ctx, r.desde.UTC(), r.hasta.UTC())
	if err != nil {
		return nil, storeErr(err)
	}

	resp := &dto.SerieResponse{Granularidad: granularidad}
	indice := map[string]int{}
	for t := b.inicio(r.desde, s.loc); t.Before(r.hasta); t = b.siguiente(t) {
		clave := t.Format(formatoFecha)
		indice[clave] = len(resp.Puntos)
		resp.Puntos = append(resp.Puntos, dto.PuntoSerie{Desde: clave})
	}
	for _, v := range ventas {
		i, ok := indice[b.inicio(v.CreatedAt, s.loc).Format(formatoFecha)]
		if !ok {
			continue
		}
		resp.Puntos[i].Cantidad++
		resp.Puntos[i].Total += v.Total
	}
	return resp, nil
}

// ── Rankings y desgloses ──────────────────────────────────────────────────────

func (s *reporteService) TopProductos(ctx context.Context, q dto.RangoQuery) (*dto.TopProductosResponse, error) {
	r, err := s.parsearRango(q)
	if err != nil {
		return nil, err
	}
	limite := q.Limite
	if limite <= 0 {
		limite = topPorDefecto
	}
	rows, err := s.repo.TopProductos(ctx, r.desde.UTC(), r.hasta.UTC(), limite)
	if err != nil {
		return nil, storeErr(err)
	}
	return &dto.TopProductosResponse{Productos: productosToResponse(rows)}, nil
}

func (s *reporteService) PorTipoPedido(ctx context.Context, q dto.RangoQuery) (*dto.DesgloseResponse, error) {
	return s.desglose(ctx, q, "tipo_pedido")
}

func (s *reporteService) PorMedioPago(ctx context.Context, q dto.RangoQuery) (*dto.DesgloseResponse, error) {
	return s.desglose(ctx, q, "medio_pago")
}

func (s *reporteService) desglose(ctx context.Context, q dto.RangoQuery, columna string) (*dto.DesgloseResponse, error) {
	r, err := s.parsearRango(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Desglose(ctx, columna, r.desde.UTC(), r.hasta.UTC())
	if err != nil {
		return nil, storeErr(err)
	}
	resp := &dto.DesgloseResponse{Por: columna, Items: make([]dto.DesgloseItem, len(rows))}
	for i, row := range rows {
		resp.Items[i] = dto.DesgloseItem{Clave: row.Clave, Cantidad: row.Cantidad, Total: row.Total}
	}
	return resp, nil
}

// ── Variaciones ───────────────────────────────────────────────────────────────

// variacionPct is (actual-anterior)/anterior*100 rounded to two decimals, or 0
// when there is nothing to compare against.
func variacionPct(anterior, actual int64) decimal.Decimal {
	if anterior == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(actual - anterior).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(anterior)).
		Round(2)
}

func (s *reporteService) Variacion(ctx context.Context, periodo string) (*dto.VariacionResponse, error) {
	ahora := s.now()
	var inicio, previo, fin time.Time
	switch periodo {
	case GranularidadSemana:
		inicio = inicioSemana(ahora, s.loc)
		previo, fin = inicio.AddDate(0, 0, -7), inicio.AddDate(0, 0, 7)
	case GranularidadMes:
		inicio = inicioMes(ahora, s.loc)
		previo, fin = inicio.AddDate(0, -1, 0), inicio.AddDate(0, 1, 0)
	default:
		return nil, invalido("periodo", "debe ser semana o mes")
	}

	_, anterior, err := s.repo.Periodo(ctx, previo.UTC(), inicio.UTC())
	if err != nil {
		return nil, storeErr(err)
	}
	_, actual, err := s.repo.Periodo(ctx, inicio.UTC(), fin.UTC())
	if err != nil {
		return nil, storeErr(err)
	}
	return &dto.VariacionResponse{
		Periodo:      periodo,
		Anterior:     anterior,
		Actual:       actual,
		VariacionPct: variacionPct(anterior, actual),
	}, nil
}

func (s *reporteService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	hoy := inicioDia(s.now(), s.loc)
	cantidad, total, err := s.repo.Periodo(ctx, hoy.UTC(), hoy.AddDate(0, 0, 1).UTC())
	if err != nil {
		return nil, storeErr(err)
	}
	activos, err := s.productos.CountActivos(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	pendientes, err := s.pedidos.CountPendientes(ctx)
	if err != nil {
		return nil, storeErr(err)
	}

	resp := &dto.DashboardResponse{
		VentasHoy:         cantidad,
		TotalHoy:          total,
		ProductosActivos:  activos,
		PedidosPendientes: pendientes,
	}
	t, err := s.turnos.FindAbierto(ctx, nil)
	switch {
	case err == nil:
		tr := turnoToResponse(t)
		resp.TurnoActual = &tr
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, storeErr(err)
	}
	return resp, nil
}
