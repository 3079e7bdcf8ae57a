package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/infra"
	"github.com/gasttonvargas/facturador-bar/internal/model"
	"github.com/gasttonvargas/facturador-bar/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const historialPorDefecto = 30

type TurnoService interface {
	// ObtenerOAbrir returns the open shift, opening one dated today when none exists.
	ObtenerOAbrir(ctx context.Context, actor string) (*dto.TurnoResponse, error)
	Actual(ctx context.Context) (*dto.TurnoResponse, error)
	Cerrar(ctx context.Context, actor string) (*dto.CierreTurnoResponse, error)
	CorregirFecha(ctx context.Context, id uint, fecha string) (*dto.TurnoResponse, error)
	Historial(ctx context.Context, limite int) (*dto.HistorialTurnosResponse, error)
	TotalCerrados(ctx context.Context, desde, hasta time.Time) (int64, error)
	Resumen(ctx context.Context, id uint) (*dto.CierreTurnoResponse, error)
	Conciliar(ctx context.Context, id uint) (*dto.ConciliacionResponse, error)
}

type turnoService struct {
	repo    repository.TurnoRepository
	ventas  repository.VentaRepository
	eventos Publicador
	cola    Encolador
	loc     *time.Location
	now     func() time.Time
}

// NewTurnoService wires the shift manager. eventos and cola may be nil.
func NewTurnoService(
	repo repository.TurnoRepository,
	ventas repository.VentaRepository,
	eventos Publicador,
	cola Encolador,
	loc *time.Location,
) TurnoService {
	if loc == nil {
		loc = time.UTC
	}
	return &turnoService{repo: repo, ventas: ventas, eventos: eventos, cola: cola, loc: loc, now: time.Now}
}

// ── Apertura ──────────────────────────────────────────────────────────────────

func (s *turnoService) ObtenerOAbrir(ctx context.Context, actor string) (*dto.TurnoResponse, error) {
	t, err := s.obtenerOAbrir(ctx, actor)
	if err != nil {
		return nil, err
	}
	resp := turnoToResponse(t)
	return &resp, nil
}

func (s *turnoService) obtenerOAbrir(ctx context.Context, actor string) (*model.Turno, error) {
	t, err := s.repo.FindAbierto(ctx, nil)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr(err)
	}

	ahora := s.now().UTC()
	nuevo := &model.Turno{
		Fecha:           fechaLocal(ahora, s.loc),
		Estado:          model.TurnoAbierto,
		UsuarioApertura: actor,
		AbiertoEn:       ahora,
	}
	err = s.repo.Create(ctx, nuevo)
	if err == nil {
		log.Info().Uint("turno_id", nuevo.ID).Str("usuario", actor).Msg("turno abierto")
		return nuevo, nil
	}
	if !errors.Is(err, repository.ErrDuplicado) {
		return nil, storeErr(err)
	}

	// Someone else opened it first: read theirs, once.
	infra.TurnoConflictos.Inc()
	t, err = s.repo.FindAbierto(ctx, nil)
	switch {
	case err == nil:
		return t, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrTurnoYaAbierto
	default:
		return nil, storeErr(err)
	}
}

func (s *turnoService) Actual(ctx context.Context) (*dto.TurnoResponse, error) {
	t, err := s.repo.FindAbierto(ctx, nil)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSinTurnoAbierto
	}
	if err != nil {
		return nil, storeErr(err)
	}
	resp := turnoToResponse(t)
	return &resp, nil
}

// ── Cierre ────────────────────────────────────────────────────────────────────
// The total is recomputed under the shift row lock, so a sale recorded
// concurrently either lands before the sum or fails on a closed shift.

func (s *turnoService) Cerrar(ctx context.Context, actor string) (*dto.CierreTurnoResponse, error) {
	var cierre dto.CierreTurnoResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		t, err := s.repo.FindAbiertoParaCierre(ctx, tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSinTurnoAbierto
		}
		if err != nil {
			return err
		}

		total, err := s.ventas.SumaOK(ctx, tx, t.ID)
		if err != nil {
			return err
		}
		productos, err := s.ventas.DesglosePorProducto(ctx, tx, t.ID)
		if err != nil {
			return err
		}

		ahora := s.now().UTC()
		n, err := s.repo.Cerrar(ctx, tx, t.ID, total, actor, ahora)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrSinTurnoAbierto
		}

		t.Estado = model.TurnoCerrado
		t.Total = total
		t.UsuarioCierre = strPtr(actor)
		t.CerradoEn = &ahora
		cierre = dto.CierreTurnoResponse{Turno: turnoToResponse(t), Productos: productosToResponse(productos)}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	infra.TurnosCerrados.Inc()
	log.Info().
		Uint("turno_id", cierre.Turno.ID).
		Int64("total", cierre.Turno.Total).
		Str("usuario", actor).
		Msg("turno cerrado")

	publicar(ctx, s.eventos, EventoTurnoCerrado, cierre.Turno)
	if s.cola != nil {
		if err := s.cola.EncolarReporteTurno(ctx, cierre.Turno.ID); err != nil {
			log.Warn().Err(err).Uint("turno_id", cierre.Turno.ID).Msg("no se pudo encolar el reporte de cierre")
		}
	}
	return &cierre, nil
}

// ── Administración ────────────────────────────────────────────────────────────

func (s *turnoService) CorregirFecha(ctx context.Context, id uint, fecha string) (*dto.TurnoResponse, error) {
	f, err := time.Parse(formatoFecha, fecha)
	if err != nil {
		return nil, invalido("fecha", "formato esperado AAAA-MM-DD")
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFind(err, "turno", id)
	}
	if t.Estado != model.TurnoCerrado {
		return nil, fmt.Errorf("%w: solo se corrige la fecha de un turno cerrado", ErrInvalidState)
	}
	n, err := s.repo.UpdateFecha(ctx, id, f)
	if err != nil {
		return nil, storeErr(err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: el turno %d ya no está cerrado", ErrInvalidState, id)
	}
	t.Fecha = f
	resp := turnoToResponse(t)
	return &resp, nil
}

func (s *turnoService) Historial(ctx context.Context, limite int) (*dto.HistorialTurnosResponse, error) {
	if limite <= 0 {
		limite = historialPorDefecto
	}
	turnos, err := s.repo.List(ctx, limite)
	if err != nil {
		return nil, storeErr(err)
	}
	hoy := fechaLocal(s.now(), s.loc)
	inicioMes := time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, time.UTC)
	total, err := s.TotalCerrados(ctx, inicioMes, inicioMes.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	resp := &dto.HistorialTurnosResponse{Turnos: make([]dto.TurnoResponse, len(turnos)), TotalCerradosMes: total}
	for i := range turnos {
		resp.Turnos[i] = turnoToResponse(&turnos[i])
	}
	return resp, nil
}

// TotalCerrados sums closed shifts whose business date falls in [desde, hasta).
func (s *turnoService) TotalCerrados(ctx context.Context, desde, hasta time.Time) (int64, error) {
	total, err := s.repo.SumCerrados(ctx, desde, hasta)
	return total, storeErr(err)
}

// Resumen rebuilds the close breakdown of any shift from its current "ok" sales.
// For a closed shift the stored total is reported, not the recomputed one.
func (s *turnoService) Resumen(ctx context.Context, id uint) (*dto.CierreTurnoResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFind(err, "turno", id)
	}
	productos, err := s.ventas.DesglosePorProducto(ctx, nil, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if t.Estado == model.TurnoAbierto {
		if t.Total, err = s.ventas.SumaOK(ctx, nil, id); err != nil {
			return nil, storeErr(err)
		}
	}
	return &dto.CierreTurnoResponse{Turno: turnoToResponse(t), Productos: productosToResponse(productos)}, nil
}

func (s *turnoService) Conciliar(ctx context.Context, id uint) (*dto.ConciliacionResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFind(err, "turno", id)
	}
	if t.Estado != model.TurnoCerrado {
		return nil, fmt.Errorf("%w: el turno %d sigue abierto", ErrInvalidState, id)
	}
	recalculado, err := s.ventas.SumaOK(ctx, nil, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return &dto.ConciliacionResponse{
		TurnoID:          id,
		TotalRegistrado:  t.Total,
		TotalRecalculado: recalculado,
		Diferencia:       recalculado - t.Total,
	}, nil
}
