package repository

import (
	"context"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/model"

	"gorm.io/gorm"
)

type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uint) (*model.Pedido, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Pedido, error)
	// Resolver moves a pending order to hacia; 0 rows means it was no longer pending.
	Resolver(ctx context.Context, tx *gorm.DB, id uint, hacia model.EstadoPedido, ventaID *uint, usuario string, en time.Time) (int64, error)
	ListPendientes(ctx context.Context) ([]model.Pedido, error)
	CountPendientes(ctx context.Context) (int64, error)
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return conn(r.db, tx).WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uint) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("pedido_items.id ASC")
	}).First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*model.Pedido, error) {
	var p model.Pedido
	if err := tx.WithContext(ctx).Clauses(paraActualizar).First(&p, id).Error; err != nil {
		return &p, err
	}
	err := tx.WithContext(ctx).Where("pedido_id = ?", id).Order("id ASC").Find(&p.Items).Error
	return &p, err
}

func (r *pedidoRepo) Resolver(ctx context.Context, tx *gorm.DB, id uint, hacia model.EstadoPedido, ventaID *uint, usuario string, en time.Time) (int64, error) {
	res := conn(r.db, tx).WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ? AND estado = ?", id, model.PedidoPendiente).
		Updates(map[string]interface{}{
			"estado":       hacia,
			"venta_id":     ventaID,
			"resuelto_por": usuario,
			"resuelto_en":  en,
		})
	return res.RowsAffected, res.Error
}

func (r *pedidoRepo) ListPendientes(ctx context.Context) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("pedido_items.id ASC")
	}).Where("estado = ?", model.PedidoPendiente).Order("id ASC").Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) CountPendientes(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Pedido{}).Where("estado = ?", model.PedidoPendiente).Count(&n).Error
	return n, err
}
