package model

import "time"

// Turno is the financial shift every sale is pinned to.
// At most one row may be "abierto"; the store enforces it with the partial
// unique index uq_turnos_abierto (see infra.applySchemaPatches and migrations).
type Turno struct {
	ID     uint        `gorm:"primaryKey"`
	Fecha  time.Time   `gorm:"type:date;not null;index"`
	Estado EstadoTurno `gorm:"type:varchar(10);not null"`
	// Total is only meaningful once the shift is closed: SUM(ventas.total) over "ok" sales.
	Total           int64     `gorm:"not null;default:0"`
	UsuarioApertura string    `gorm:"type:varchar(150);not null"`
	UsuarioCierre   *string   `gorm:"type:varchar(150)"`
	AbiertoEn       time.Time `gorm:"not null"`
	CerradoEn       *time.Time
}

// ProductoVendido is one row of a shift or period product breakdown.
type ProductoVendido struct {
	Producto string
	Cantidad int64
	Total    int64
}

// Desglose is one group of a report breakdown (by order type or payment method).
type Desglose struct {
	Clave    string
	Cantidad int64
	Total    int64
}

func (Turno) TableName() string { return "turnos" }
