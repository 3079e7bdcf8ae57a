package service

import (
	"context"
	"fmt"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/infra"
	"github.com/gasttonvargas/facturador-bar/internal/model"
	"github.com/gasttonvargas/facturador-bar/internal/repository"
)

// CocinaService moves sales along the kitchen and delivery axes. Every move is
// a single conditional update; repeating the current state succeeds without change.
type CocinaService interface {
	MarcarListo(ctx context.Context, id uint) (*dto.TransicionResponse, error)
	AvanzarDelivery(ctx context.Context, id uint) (*dto.TransicionResponse, error)
	MoverDelivery(ctx context.Context, id uint, destino string) (*dto.TransicionResponse, error)
	Cola(ctx context.Context) ([]dto.VentaResponse, error)
	Delivery(ctx context.Context) ([]dto.VentaResponse, error)
}

type cocinaService struct {
	repo    repository.VentaRepository
	eventos Publicador
}

func NewCocinaService(repo repository.VentaRepository, eventos Publicador) CocinaService {
	return &cocinaService{repo: repo, eventos: eventos}
}

func transicion(v *model.Venta, cambio bool) *dto.TransicionResponse {
	return &dto.TransicionResponse{
		VentaID:        v.ID,
		EstadoCocina:   string(v.EstadoCocina),
		EstadoDelivery: string(v.EstadoDelivery),
		Cambio:         cambio,
	}
}

func (s *cocinaService) cargar(ctx context.Context, id uint) (*model.Venta, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFind(err, "venta", id)
	}
	if v.Estado != model.VentaOK {
		return nil, fmt.Errorf("%w: la venta %d está eliminada", ErrInvalidState, id)
	}
	return v, nil
}

// ── Cocina ────────────────────────────────────────────────────────────────────

func (s *cocinaService) MarcarListo(ctx context.Context, id uint) (*dto.TransicionResponse, error) {
	v, err := s.cargar(ctx, id)
	if err != nil {
		return nil, err
	}
	switch v.EstadoCocina {
	case model.CocinaListo:
		return transicion(v, false), nil
	case model.CocinaNoAplica:
		return nil, fmt.Errorf("%w: la venta %d no pasa por cocina", ErrInvalidState, id)
	}

	n, err := s.repo.ActualizarSi(ctx, nil, id,
		map[string]interface{}{"estado": model.VentaOK, "estado_cocina": model.CocinaPendiente},
		map[string]interface{}{"estado_cocina": model.CocinaListo})
	if err != nil {
		return nil, storeErr(err)
	}
	if n == 0 {
		// Lost a race: fine if the winner also marked it ready.
		return s.releer(ctx, id, func(v *model.Venta) bool { return v.EstadoCocina == model.CocinaListo })
	}

	v.EstadoCocina = model.CocinaListo
	infra.VentasTransiciones.WithLabelValues("cocina_listo").Inc()
	resp := transicion(v, true)
	publicar(ctx, s.eventos, EventoCocinaListo, resp)
	return resp, nil
}

// ── Delivery ──────────────────────────────────────────────────────────────────

func (s *cocinaService) AvanzarDelivery(ctx context.Context, id uint) (*dto.TransicionResponse, error) {
	v, err := s.cargar(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.EstadoDelivery == model.DeliveryNoAplica {
		return nil, fmt.Errorf("%w: la venta %d no es delivery", ErrInvalidState, id)
	}
	siguiente, ok := v.EstadoDelivery.Siguiente()
	if !ok {
		return nil, fmt.Errorf("%w: la venta %d ya fue entregada", ErrInvalidState, id)
	}
	return s.moverDesde(ctx, v, siguiente)
}

func (s *cocinaService) MoverDelivery(ctx context.Context, id uint, destino string) (*dto.TransicionResponse, error) {
	hacia := model.EstadoDelivery(destino)
	if !hacia.Valid() || hacia == model.DeliveryNoAplica {
		return nil, invalido("estado", "debe ser pendiente, listo, en_camino o entregado")
	}
	v, err := s.cargar(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.EstadoDelivery == model.DeliveryNoAplica {
		return nil, fmt.Errorf("%w: la venta %d no es delivery", ErrInvalidState, id)
	}
	if v.EstadoDelivery == hacia {
		return transicion(v, false), nil
	}
	if siguiente, ok := v.EstadoDelivery.Siguiente(); !ok || siguiente != hacia {
		return nil, fmt.Errorf("%w: no se puede pasar de %s a %s", ErrInvalidState, v.EstadoDelivery, hacia)
	}
	return s.moverDesde(ctx, v, hacia)
}

func (s *cocinaService) moverDesde(ctx context.Context, v *model.Venta, hacia model.EstadoDelivery) (*dto.TransicionResponse, error) {
	n, err := s.repo.ActualizarSi(ctx, nil, v.ID,
		map[string]interface{}{"estado": model.VentaOK, "estado_delivery": v.EstadoDelivery},
		map[string]interface{}{"estado_delivery": hacia})
	if err != nil {
		return nil, storeErr(err)
	}
	if n == 0 {
		return s.releer(ctx, v.ID, func(v *model.Venta) bool { return v.EstadoDelivery == hacia })
	}

	v.EstadoDelivery = hacia
	infra.VentasTransiciones.WithLabelValues("delivery_" + string(hacia)).Inc()
	resp := transicion(v, true)
	publicar(ctx, s.eventos, EventoDeliveryPref+string(hacia), resp)
	return resp, nil
}

// releer resolves a lost conditional update: success without change when the
// concurrent writer left the sale where this call wanted it.
func (s *cocinaService) releer(ctx context.Context, id uint, alcanzado func(*model.Venta) bool) (*dto.TransicionResponse, error) {
	v, err := s.cargar(ctx, id)
	if err != nil {
		return nil, err
	}
	if alcanzado(v) {
		return transicion(v, false), nil
	}
	return nil, fmt.Errorf("%w: la venta %d cambió de estado", ErrInvalidState, id)
}

// ── Tableros ──────────────────────────────────────────────────────────────────

func (s *cocinaService) Cola(ctx context.Context) ([]dto.VentaResponse, error) {
	ventas, err := s.repo.ListCocinaPendiente(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return ventasToResponse(ventas), nil
}

func (s *cocinaService) Delivery(ctx context.Context) ([]dto.VentaResponse, error) {
	ventas, err := s.repo.ListDeliveryActivo(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return ventasToResponse(ventas), nil
}
