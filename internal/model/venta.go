package model

import "time"

// Venta is a completed order pinned to a Turno.
// TurnoID never changes after insert. Line items are owned by the sale and
// carry a snapshot of the product name and price at the time of the sale.
type Venta struct {
	ID             uint           `gorm:"primaryKey"`
	TurnoID        uint           `gorm:"not null;index"`
	MedioPago      string         `gorm:"type:varchar(30);not null"`
	Total          int64          `gorm:"not null"`
	Estado         EstadoVenta    `gorm:"type:varchar(12);not null;index"`
	TipoPedido     TipoPedido     `gorm:"type:varchar(12);not null"`
	Direccion      string         `gorm:"type:varchar(255)"`
	EstadoPago     EstadoPago     `gorm:"type:varchar(12);not null"`
	EstadoCocina   EstadoCocina   `gorm:"type:varchar(12);not null;index"`
	EstadoDelivery EstadoDelivery `gorm:"type:varchar(12);not null"`
	// Vuelto = max(0, PagaCon - Total) at the moment cash was handled.
	PagaCon int64  `gorm:"not null;default:0"`
	Vuelto  int64  `gorm:"not null;default:0"`
	Usuario string `gorm:"type:varchar(150);not null"`

	// Reposición (reinstatement) audit trail
	Repuesta         bool `gorm:"not null;default:false"`
	RepuestaEn       *time.Time
	RepuestaPor      *string `gorm:"type:varchar(150)"`
	MotivoReposicion *string

	EliminadaEn  *time.Time
	EliminadaPor *string `gorm:"type:varchar(150)"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
}

// VentaItem is an immutable snapshot line. Edits replace the whole set.
type VentaItem struct {
	ID             uint   `gorm:"primaryKey"`
	VentaID        uint   `gorm:"not null;index"`
	Producto       string `gorm:"type:varchar(150);not null"`
	Cantidad       int    `gorm:"not null"`
	PrecioUnitario int64  `gorm:"not null"`
	Extras         string
	Observaciones  string
}

func (i VentaItem) Subtotal() int64 {
	return int64(i.Cantidad) * i.PrecioUnitario
}

// TotalItems returns Σ cantidad × precio_unitario.
func TotalItems(items []VentaItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

// CalcularVuelto returns the change due for a cash payment; never negative.
func CalcularVuelto(pagaCon, total int64) int64 {
	if pagaCon <= total {
		return 0
	}
	return pagaCon - total
}

// TableName overrides GORM's singular to plural logic, which does not know Spanish.
func (Venta) TableName() string { return "ventas" }

func (VentaItem) TableName() string { return "venta_items" }
