package dto

import (
	"github.com/shopspring/decimal"
)

// RangoQuery is a half-open [desde, hasta) range of calendar dates (YYYY-MM-DD).
type RangoQuery struct {
	Desde  string `form:"desde" validate:"required,datetime=2006-01-02"`
	Hasta  string `form:"hasta" validate:"required,datetime=2006-01-02"`
	Limite int    `form:"limite" validate:"omitempty,min=1,max=100"`
}

type PeriodoResponse struct {
	Desde    string `json:"desde"`
	Hasta    string `json:"hasta"`
	Cantidad int64  `json:"cantidad"`
	Total    int64  `json:"total"`
}

type PuntoSerie struct {
	Desde    string `json:"desde"` // bucket start date
	Cantidad int64  `json:"cantidad"`
	Total    int64  `json:"total"`
}

type SerieResponse struct {
	Granularidad string       `json:"granularidad"` // dia | semana | mes
	Puntos       []PuntoSerie `json:"puntos"`
}

type DesgloseItem struct {
	Clave    string `json:"clave"`
	Cantidad int64  `json:"cantidad"`
	Total    int64  `json:"total"`
}

type DesgloseResponse struct {
	Por   string         `json:"por"` // tipo_pedido | medio_pago
	Items []DesgloseItem `json:"items"`
}

type TopProductosResponse struct {
	Productos []ProductoVendidoResponse `json:"productos"`
}

type VariacionResponse struct {
	Periodo      string          `json:"periodo"` // semana | mes
	Anterior     int64           `json:"anterior"`
	Actual       int64           `json:"actual"`
	VariacionPct decimal.Decimal `json:"variacion_pct"`
}

type DashboardResponse struct {
	VentasHoy         int64          `json:"ventas_hoy"`
	TotalHoy          int64          `json:"total_hoy"`
	ProductosActivos  int64          `json:"productos_activos"`
	PedidosPendientes int64          `json:"pedidos_pendientes"`
	TurnoActual       *TurnoResponse `json:"turno_actual"`
}
