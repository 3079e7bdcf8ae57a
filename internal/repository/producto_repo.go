package repository

import (
	"context"

	"github.com/gasttonvargas/facturador-bar/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductoRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Producto, error)
	// FindByIDTx reads inside the sale transaction so the snapshot and the insert agree.
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Producto, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
	CountActivos(ctx context.Context) (int64, error)
	// Upsert inserts or updates by nombre.
	Upsert(ctx context.Context, p *model.Producto) error
	// DesactivarExcepto deactivates every product whose name is not in nombres.
	DesactivarExcepto(ctx context.Context, nombres []string) (int64, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) FindByID(ctx context.Context, id uint) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Producto, error) {
	var p model.Producto
	err := conn(r.db, tx).WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Where("activo = ?", true).Order("categoria ASC, nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) CountActivos(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Where("activo = ?", true).Count(&n).Error
	return n, err
}

func (r *productoRepo) Upsert(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nombre"}},
		DoUpdates: clause.AssignmentColumns([]string{"precio", "categoria", "tipo", "activo", "updated_at"}),
	}).Create(p).Error
}

func (r *productoRepo) DesactivarExcepto(ctx context.Context, nombres []string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Producto{}).Where("activo = ?", true)
	if len(nombres) > 0 {
		q = q.Where("nombre NOT IN ?", nombres)
	}
	res := q.Update("activo", false)
	return res.RowsAffected, res.Error
}
