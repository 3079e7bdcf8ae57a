package model

import "time"

// Producto is a catalog entry. The order lifecycle only reads it; prices are
// copied into line items at sale time so later changes never alter history.
type Producto struct {
	ID        uint         `gorm:"primaryKey"`
	Nombre    string       `gorm:"type:varchar(150);uniqueIndex;not null"`
	Precio    int64        `gorm:"not null"`
	Categoria string       `gorm:"type:varchar(60);not null;index"`
	Tipo      TipoProducto `gorm:"type:varchar(12);not null;default:'normal'"`
	Activo    bool         `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Producto) TableName() string { return "productos" }
