package repository

import (
	"context"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/model"

	"gorm.io/gorm"
)

type TurnoRepository interface {
	// Create returns ErrDuplicado when another shift is already open.
	Create(ctx context.Context, t *model.Turno) error
	FindAbierto(ctx context.Context, tx *gorm.DB) (*model.Turno, error)
	// FindAbiertoParaCierre locks the open shift row until the transaction ends.
	FindAbiertoParaCierre(ctx context.Context, tx *gorm.DB) (*model.Turno, error)
	FindByID(ctx context.Context, id uint) (*model.Turno, error)
	// FindByIDParaVenta takes a shared lock so a concurrent close waits for the sale.
	FindByIDParaVenta(ctx context.Context, tx *gorm.DB, id uint) (*model.Turno, error)
	Cerrar(ctx context.Context, tx *gorm.DB, id uint, total int64, usuario string, en time.Time) (int64, error)
	UpdateFecha(ctx context.Context, id uint, fecha time.Time) (int64, error)
	List(ctx context.Context, limite int) ([]model.Turno, error)
	SumCerrados(ctx context.Context, desde, hasta time.Time) (int64, error)
	DB() *gorm.DB
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) DB() *gorm.DB { return r.db }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return traducir(r.db.WithContext(ctx).Create(t).Error)
}

func (r *turnoRepo) FindAbierto(ctx context.Context, tx *gorm.DB) (*model.Turno, error) {
	var t model.Turno
	err := conn(r.db, tx).WithContext(ctx).Where("estado = ?", model.TurnoAbierto).First(&t).Error
	return &t, err
}

func (r *turnoRepo) FindAbiertoParaCierre(ctx context.Context, tx *gorm.DB) (*model.Turno, error) {
	var t model.Turno
	err := tx.WithContext(ctx).Clauses(paraActualizar).Where("estado = ?", model.TurnoAbierto).First(&t).Error
	return &t, err
}

func (r *turnoRepo) FindByID(ctx context.Context, id uint) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) FindByIDParaVenta(ctx context.Context, tx *gorm.DB, id uint) (*model.Turno, error) {
	var t model.Turno
	err := tx.WithContext(ctx).Clauses(paraCompartir).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) Cerrar(ctx context.Context, tx *gorm.DB, id uint, total int64, usuario string, en time.Time) (int64, error) {
	res := tx.WithContext(ctx).Model(&model.Turno{}).
		Where("id = ? AND estado = ?", id, model.TurnoAbierto).
		Updates(map[string]interface{}{
			"estado":         model.TurnoCerrado,
			"total":          total,
			"usuario_cierre": usuario,
			"cerrado_en":     en,
		})
	return res.RowsAffected, res.Error
}

func (r *turnoRepo) UpdateFecha(ctx context.Context, id uint, fecha time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Turno{}).
		Where("id = ? AND estado = ?", id, model.TurnoCerrado).
		Update("fecha", fecha)
	return res.RowsAffected, res.Error
}

func (r *turnoRepo) List(ctx context.Context, limite int) ([]model.Turno, error) {
	var turnos []model.Turno
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limite).Find(&turnos).Error
	return turnos, err
}

func (r *turnoRepo) SumCerrados(ctx context.Context, desde, hasta time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Turno{}).
		Select("CAST(COALESCE(SUM(total), 0) AS BIGINT)").
		Where("estado = ? AND fecha >= ? AND fecha < ?", model.TurnoCerrado, desde, hasta).
		Scan(&total).Error
	return total, err
}
