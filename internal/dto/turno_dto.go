package dto

import "time"

type CorregirFechaRequest struct {
	Fecha string `json:"fecha" validate:"required,datetime=2006-01-02"`
}

type TurnoResponse struct {
	ID              uint       `json:"id"`
	Fecha           string     `json:"fecha"` // YYYY-MM-DD
	Estado          string     `json:"estado"`
	Total           int64      `json:"total"`
	UsuarioApertura string     `json:"usuario_apertura"`
	UsuarioCierre   *string    `json:"usuario_cierre,omitempty"`
	AbiertoEn       time.Time  `json:"abierto_en"`
	CerradoEn       *time.Time `json:"cerrado_en,omitempty"`
}

type ProductoVendidoResponse struct {
	Producto string `json:"producto"`
	Cantidad int64  `json:"cantidad"`
	Total    int64  `json:"total"`
}

// CierreTurnoResponse is the shift-close result: the closed shift plus its
// product breakdown ordered by quantity sold, descending.
type CierreTurnoResponse struct {
	Turno     TurnoResponse             `json:"turno"`
	Productos []ProductoVendidoResponse `json:"productos"`
}

type HistorialTurnosResponse struct {
	Turnos []TurnoResponse `json:"turnos"`
	// TotalCerradosMes sums closed shifts dated in the current month.
	TotalCerradosMes int64 `json:"total_cerrados_mes"`
}

// ConciliacionResponse compares a closed shift's stored total with the total
// recomputed from its currently-ok sales.
type ConciliacionResponse struct {
	TurnoID          uint  `json:"turno_id"`
	TotalRegistrado  int64 `json:"total_registrado"`
	TotalRecalculado int64 `json:"total_recalculado"`
	Diferencia       int64 `json:"diferencia"`
}
