package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/infra"
	"github.com/gasttonvargas/facturador-bar/internal/model"
	"github.com/gasttonvargas/facturador-bar/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PedidoService tracks table orders placed from the public menu until staff
// confirms them into a sale or cancels them.
type PedidoService interface {
	Crear(ctx context.Context, mesa string, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	Confirmar(ctx context.Context, id uint, actor string, turnoID uint) (*dto.RegistroVentaResponse, error)
	ConfirmarEnTurnoActual(ctx context.Context, id uint, actor string) (*dto.RegistroVentaResponse, error)
	Cancelar(ctx context.Context, id uint, actor string) (*dto.PedidoResponse, error)
	Pendientes(ctx context.Context) (*dto.PedidosPendientesResponse, error)
	CantidadPendientes(ctx context.Context) (int64, error)
}

type pedidoService struct {
	repo      repository.PedidoRepository
	ventas    repository.VentaRepository
	turnos    repository.TurnoRepository
	productos repository.ProductoRepository
	turnoSvc  TurnoService
	eventos   Publicador
	now       func() time.Time
}

func NewPedidoService(
	repo repository.PedidoRepository,
	ventas repository.VentaRepository,
	turnos repository.TurnoRepository,
	productos repository.ProductoRepository,
	turnoSvc TurnoService,
	eventos Publicador,
) PedidoService {
	return &pedidoService{
		repo:      repo,
		ventas:    ventas,
		turnos:    turnos,
		productos: productos,
		turnoSvc:  turnoSvc,
		eventos:   eventos,
		now:       time.Now,
	}
}

func (s *pedidoService) Crear(ctx context.Context, mesa string, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	mesa = strings.TrimSpace(mesa)
	if mesa == "" {
		return nil, invalido("mesa", "requerida")
	}

	pedido := model.Pedido{Mesa: mesa, Estado: model.PedidoPendiente, CreatedAt: s.now().UTC()}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		items, err := resolverItems(ctx, tx, s.productos, req.Items)
		if err != nil {
			return err
		}
		for _, it := range items {
			pedido.Items = append(pedido.Items, model.PedidoItem{
				Producto:       it.Producto,
				Cantidad:       it.Cantidad,
				PrecioUnitario: it.PrecioUnitario,
				Extras:         it.Extras,
				Observaciones:  it.Observaciones,
			})
		}
		pedido.Total = model.TotalItems(items)
		return s.repo.Create(ctx, tx, &pedido)
	})
	if err != nil {
		return nil, storeErr(err)
	}

	infra.PedidosResueltos.WithLabelValues(string(model.PedidoPendiente)).Inc()
	resp := pedidoToResponse(&pedido)
	publicar(ctx, s.eventos, EventoPedidoCreado, resp)
	return &resp, nil
}

// Confirmar turns a pending order into a sale with the order's lines copied
// as-is. Prices are not looked up again.
func (s *pedidoService) Confirmar(ctx context.Context, id uint, actor string, turnoID uint) (*dto.RegistroVentaResponse, error) {
	var venta model.Venta
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDTx(ctx, tx, id)
		if err != nil {
			return mapFind(err, "pedido", id)
		}
		if p.Estado != model.PedidoPendiente {
			return fmt.Errorf("%w: el pedido %d está %s", ErrInvalidState, id, p.Estado)
		}

		items := make([]model.VentaItem, len(p.Items))
		for i, it := range p.Items {
			items[i] = it.ComoVentaItem()
		}
		cocina, delivery := model.EstadosIniciales(model.TipoMesa)
		ahora := s.now().UTC()
		venta = model.Venta{
			MedioPago:      model.MedioPagoMesa,
			Total:          model.TotalItems(items),
			Estado:         model.VentaOK,
			TipoPedido:     model.TipoMesa,
			EstadoPago:     model.PagoPendiente,
			EstadoCocina:   cocina,
			EstadoDelivery: delivery,
			Usuario:        actor,
			CreatedAt:      ahora,
			Items:          items,
		}
		if err := registrarEnTurno(ctx, tx, s.turnos, s.ventas, turnoID, &venta); err != nil {
			return err
		}

		n, err := s.repo.Resolver(ctx, tx, id, model.PedidoConfirmado, &venta.ID, actor, ahora)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: el pedido %d ya fue resuelto", ErrInvalidState, id)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	infra.PedidosResueltos.WithLabelValues(string(model.PedidoConfirmado)).Inc()
	infra.VentasRegistradas.WithLabelValues(string(model.TipoMesa)).Inc()
	infra.VentasImporte.Add(float64(venta.Total))
	log.Info().Uint("pedido_id", id).Uint("venta_id", venta.ID).Str("usuario", actor).Msg("pedido confirmado")
	publicar(ctx, s.eventos, EventoPedidoResuelto+string(model.PedidoConfirmado), map[string]uint{"pedido_id": id, "venta_id": venta.ID})

	return &dto.RegistroVentaResponse{ID: venta.ID, Total: venta.Total, Vuelto: venta.Vuelto}, nil
}

func (s *pedidoService) ConfirmarEnTurnoActual(ctx context.Context, id uint, actor string) (*dto.RegistroVentaResponse, error) {
	turno, err := s.turnoSvc.ObtenerOAbrir(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.Confirmar(ctx, id, actor, turno.ID)
}

func (s *pedidoService) Cancelar(ctx context.Context, id uint, actor string) (*dto.PedidoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFind(err, "pedido", id)
	}
	if p.Estado != model.PedidoPendiente {
		return nil, fmt.Errorf("%w: el pedido %d está %s", ErrInvalidState, id, p.Estado)
	}
	ahora := s.now().UTC()
	n, err := s.repo.Resolver(ctx, nil, id, model.PedidoCancelado, nil, actor, ahora)
	if err != nil {
		return nil, storeErr(err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: el pedido %d ya fue resuelto", ErrInvalidState, id)
	}

	p.Estado = model.PedidoCancelado
	p.ResueltoEn = &ahora
	p.ResueltoPor = strPtr(actor)
	infra.PedidosResueltos.WithLabelValues(string(model.PedidoCancelado)).Inc()
	publicar(ctx, s.eventos, EventoPedidoResuelto+string(model.PedidoCancelado), map[string]uint{"pedido_id": id})

	resp := pedidoToResponse(p)
	return &resp, nil
}

func (s *pedidoService) Pendientes(ctx context.Context) (*dto.PedidosPendientesResponse, error) {
	pedidos, err := s.repo.ListPendientes(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	resp := &dto.PedidosPendientesResponse{
		Cantidad: int64(len(pedidos)),
		Pedidos:  make([]dto.PedidoResponse, len(pedidos)),
	}
	for i := range pedidos {
		resp.Pedidos[i] = pedidoToResponse(&pedidos[i])
	}
	return resp, nil
}

func (s *pedidoService) CantidadPendientes(ctx context.Context) (int64, error) {
	n, err := s.repo.CountPendientes(ctx)
	return n, storeErr(err)
}
