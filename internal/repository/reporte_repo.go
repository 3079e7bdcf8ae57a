package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/model"

	"gorm.io/gorm"
)

// VentaResumen is the minimal projection used to bucket sales into series.
type VentaResumen struct {
	CreatedAt time.Time
	Total     int64
}

// ReporteRepository runs read-only aggregates over "ok" sales in half-open
// [desde, hasta) ranges of created_at.
type ReporteRepository interface {
	Periodo(ctx context.Context, desde, hasta time.Time) (cantidad int64, total int64, err error)
	VentasEnRango(ctx context.Context, desde, hasta time.Time) ([]VentaResumen, error)
	TopProductos(ctx context.Context, desde, hasta time.Time, limite int) ([]model.ProductoVendido, error)
	// Desglose groups by "tipo_pedido" or "medio_pago".
	Desglose(ctx context.Context, columna string, desde, hasta time.Time) ([]model.Desglose, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) ventasOK(ctx context.Context, desde, hasta time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("ventas.estado = ? AND ventas.created_at >= ? AND ventas.created_at < ?", model.VentaOK, desde, hasta)
}

func (r *reporteRepo) Periodo(ctx context.Context, desde, hasta time.Time) (int64, int64, error) {
	var row struct {
		Cantidad int64
		Total    int64
	}
	err := r.ventasOK(ctx, desde, hasta).
		Select("COUNT(*) AS cantidad, CAST(COALESCE(SUM(total), 0) AS BIGINT) AS total").
		Scan(&row).Error
	return row.Cantidad, row.Total, err
}

func (r *reporteRepo) VentasEnRango(ctx context.Context, desde, hasta time.Time) ([]VentaResumen, error) {
	var rows []VentaResumen
	err := r.ventasOK(ctx, desde, hasta).
		Select("created_at, total").
		Order("created_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) TopProductos(ctx context.Context, desde, hasta time.Time, limite int) ([]model.ProductoVendido, error) {
	var rows []model.ProductoVendido
	err := r.ventasOK(ctx, desde, hasta).
		Joins("JOIN venta_items ON venta_items.venta_id = ventas.id").
		Select(`venta_items.producto AS producto,
			CAST(SUM(venta_items.cantidad) AS BIGINT) AS cantidad,
			CAST(SUM(venta_items.cantidad * venta_items.precio_unitario) AS BIGINT) AS total`).
		Group("venta_items.producto").
		Order("cantidad DESC, producto ASC").
		Limit(limite).
		Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) Desglose(ctx context.Context, columna string, desde, hasta time.Time) ([]model.Desglose, error) {
	if columna != "tipo_pedido" && columna != "medio_pago" {
		return nil, fmt.Errorf("reporte: columna de desglose no soportada %q", columna)
	}
	var rows []model.Desglose
	err := r.ventasOK(ctx, desde, hasta).
		Select(fmt.Sprintf("ventas.%s AS clave, COUNT(*) AS cantidad, CAST(COALESCE(SUM(ventas.total), 0) AS BIGINT) AS total", columna)).
		Group("ventas." + columna).
		Order("total DESC, clave ASC").
		Scan(&rows).Error
	return rows, err
}
