package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/infra"
	"github.com/gasttonvargas/facturador-bar/internal/ticket"

	"github.com/rs/zerolog/log"
)

type ReporteTurnoPayload struct {
	TurnoID uint `json:"turno_id"`
}

// Resumidor is the slice of service.TurnoService the report job needs.
type Resumidor interface {
	Resumen(ctx context.Context, id uint) (*dto.CierreTurnoResponse, error)
}

// ReporteTurnoWorker renders the close report of a shift to PDF and, when a
// recipient is configured, queues an email with it attached.
type ReporteTurnoWorker struct {
	turnos      Resumidor
	dispatcher  *Dispatcher
	negocio     string
	destino     string
	storagePath string
	loc         *time.Location
}

func NewReporteTurnoWorker(turnos Resumidor, dispatcher *Dispatcher, negocio, destino, storagePath string, loc *time.Location) *ReporteTurnoWorker {
	return &ReporteTurnoWorker{
		turnos:      turnos,
		dispatcher:  dispatcher,
		negocio:     negocio,
		destino:     destino,
		storagePath: storagePath,
		loc:         loc,
	}
}

func (w *ReporteTurnoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReporteTurnoPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.TurnoID == 0 {
		log.Error().Str("payload", string(raw)).Msg("reporte_worker: invalid payload")
		return nil
	}

	resumen, err := w.turnos.Resumen(ctx, payload.TurnoID)
	if err != nil {
		return fmt.Errorf("resumen turno %d: %w", payload.TurnoID, err)
	}
	path, err := infra.GenerarCierrePDF(w.negocio, *resumen, w.loc, w.storagePath)
	if err != nil {
		return fmt.Errorf("pdf turno %d: %w", payload.TurnoID, err)
	}
	log.Info().Uint("turno_id", payload.TurnoID).Str("pdf", path).Msg("reporte_worker: close report generated")

	if w.destino == "" || w.dispatcher == nil {
		return nil
	}
	return w.dispatcher.EncolarEmail(ctx, EmailJobPayload{
		ToEmail: w.destino,
		Subject: fmt.Sprintf("%s - cierre de turno %s", w.negocio, resumen.Turno.Fecha),
		Body:    fmt.Sprintf("Total del turno: %s\nProductos distintos: %d\n", ticket.Monto(resumen.Turno.Total), len(resumen.Productos)),
		PDFPath: path,
	})
}
