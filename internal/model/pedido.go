package model

import "time"

// Pedido is a table order drafted by a customer before staff confirms it into a Venta.
type Pedido struct {
	ID     uint         `gorm:"primaryKey"`
	Mesa   string       `gorm:"type:varchar(30);not null"`
	Estado EstadoPedido `gorm:"type:varchar(12);not null;index"`
	Total  int64        `gorm:"not null"`
	// VentaID links the sale produced on confirmation.
	VentaID     *uint
	ResueltoEn  *time.Time
	ResueltoPor *string `gorm:"type:varchar(150)"`
	CreatedAt   time.Time

	Items []PedidoItem `gorm:"foreignKey:PedidoID"`
}

type PedidoItem struct {
	ID             uint   `gorm:"primaryKey"`
	PedidoID       uint   `gorm:"not null;index"`
	Producto       string `gorm:"type:varchar(150);not null"`
	Cantidad       int    `gorm:"not null"`
	PrecioUnitario int64  `gorm:"not null"`
	Extras         string
	Observaciones  string
}

// ComoVentaItem copies the snapshot verbatim; confirmation never re-prices.
func (i PedidoItem) ComoVentaItem() VentaItem {
	return VentaItem{
		Producto:       i.Producto,
		Cantidad:       i.Cantidad,
		PrecioUnitario: i.PrecioUnitario,
		Extras:         i.Extras,
		Observaciones:  i.Observaciones,
	}
}

// TableName overrides GORM's default pluralization for Spanish names.
func (Pedido) TableName() string { return "pedidos" }

func (PedidoItem) TableName() string { return "pedido_items" }
