package repository

import (
	"context"

	"github.com/gasttonvargas/facturador-bar/internal/model"

	"gorm.io/gorm"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uint) (*model.Venta, error)
	// FindByIDTx loads the sale with its items and locks the row.
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Venta, error)
	ReemplazarItems(ctx context.Context, tx *gorm.DB, ventaID uint, items []model.VentaItem) error
	// ActualizarSi applies valores only when the row still matches donde.
	// The returned count is 0 when another writer got there first.
	ActualizarSi(ctx context.Context, tx *gorm.DB, id uint, donde map[string]interface{}, valores map[string]interface{}) (int64, error)
	SumaOK(ctx context.Context, tx *gorm.DB, turnoID uint) (int64, error)
	DesglosePorProducto(ctx context.Context, tx *gorm.DB, turnoID uint) ([]model.ProductoVendido, error)
	ListByTurno(ctx context.Context, turnoID uint, incluirEliminadas bool) ([]model.Venta, error)
	ListCocinaPendiente(ctx context.Context) ([]model.Venta, error)
	ListDeliveryActivo(ctx context.Context) ([]model.Venta, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("venta_items.id ASC")
}

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uint) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items", preloadItems).First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Venta, error) {
	var v model.Venta
	if err := tx.WithContext(ctx).Clauses(paraActualizar).First(&v, id).Error; err != nil {
		return &v, err
	}
	err := tx.WithContext(ctx).Where("venta_id = ?", id).Order("id ASC").Find(&v.Items).Error
	return &v, err
}

func (r *ventaRepo) ReemplazarItems(ctx context.Context, tx *gorm.DB, ventaID uint, items []model.VentaItem) error {
	if err := tx.WithContext(ctx).Where("venta_id = ?", ventaID).Delete(&model.VentaItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].VentaID = ventaID
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *ventaRepo) ActualizarSi(ctx context.Context, tx *gorm.DB, id uint, donde map[string]interface{}, valores map[string]interface{}) (int64, error) {
	q := conn(r.db, tx).WithContext(ctx).Model(&model.Venta{}).Where("id = ?", id)
	if len(donde) > 0 {
		q = q.Where(donde)
	}
	res := q.Updates(valores)
	return res.RowsAffected, res.Error
}

func (r *ventaRepo) SumaOK(ctx context.Context, tx *gorm.DB, turnoID uint) (int64, error) {
	var total int64
	err := conn(r.db, tx).WithContext(ctx).Model(&model.Venta{}).
		Select("CAST(COALESCE(SUM(total), 0) AS BIGINT)").
		Where("turno_id = ? AND estado = ?", turnoID, model.VentaOK).
		Scan(&total).Error
	return total, err
}

func (r *ventaRepo) DesglosePorProducto(ctx context.Context, tx *gorm.DB, turnoID uint) ([]model.ProductoVendido, error) {
	var rows []model.ProductoVendido
	err := conn(r.db, tx).WithContext(ctx).Raw(`
		SELECT venta_items.producto AS producto,
		       CAST(SUM(venta_items.cantidad) AS BIGINT) AS cantidad,
		       CAST(SUM(venta_items.cantidad * venta_items.precio_unitario) AS BIGINT) AS total
		FROM venta_items
		JOIN ventas ON ventas.id = venta_items.venta_id
		WHERE ventas.turno_id = ? AND ventas.estado = ?
		GROUP BY venta_items.producto
		ORDER BY cantidad DESC, producto ASC`, turnoID, model.VentaOK).
		Scan(&rows).Error
	return rows, err
}

func (r *ventaRepo) ListByTurno(ctx context.Context, turnoID uint, incluirEliminadas bool) ([]model.Venta, error) {
	var ventas []model.Venta
	q := r.db.WithContext(ctx).Preload("Items", preloadItems).Where("turno_id = ?", turnoID)
	if !incluirEliminadas {
		q = q.Where("estado = ?", model.VentaOK)
	}
	err := q.Order("id DESC").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListCocinaPendiente(ctx context.Context) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).Preload("Items", preloadItems).
		Where("estado = ? AND estado_cocina = ?", model.VentaOK, model.CocinaPendiente).
		Order("id ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListDeliveryActivo(ctx context.Context) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).Preload("Items", preloadItems).
		Where("estado = ? AND tipo_pedido = ? AND estado_cocina = ?", model.VentaOK, model.TipoDelivery, model.CocinaListo).
		Where("estado_delivery <> ?", model.DeliveryEntregado).
		Order("id ASC").
		Find(&ventas).Error
	return ventas, err
}
