package service

import (
	"context"
	"errors"
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

type VentaService interface {
	Registrar(ctx context.Context, turnoID uint, actor string, req dto.RegistrarVentaRequest) (*dto.RegistroVentaResponse, error)
	// RegistrarEnTurnoActual opens today's shift if needed and records the sale in it.
	RegistrarEnTurnoActual(ctx context.Context, actor string, req dto.RegistrarVentaRequest) (*dto.RegistroVentaResponse, error)
	Editar(ctx context.Context, id uint, req dto.EditarVentaRequest) (*dto.VentaResponse, error)
	Eliminar(ctx context.Context, id uint, actor string) error
	Reponer(ctx context.Context, id uint, actor, motivo string) (*dto.VentaResponse, error)
	Cobrar(ctx context.Context, id uint, pagaCon int64) (*dto.VentaResponse, error)
	Obtener(ctx context.Context, id uint) (*dto.VentaResponse, error)
	ListarPorTurno(ctx context.Context, turnoID uint, incluirEliminadas bool) ([]dto.VentaResponse, error)
}

type ventaService struct {
	repo      repository.VentaRepository
	turnos    repository.TurnoRepository
	productos repository.ProductoRepository
	turnoSvc  TurnoService
	now       func() time.Time
}

func NewVentaService(
	repo repository.VentaRepository,
	turnos repository.TurnoRepository,
	productos repository.ProductoRepository,
	turnoSvc TurnoService,
) VentaService {
	return &ventaService{repo: repo, turnos: turnos, productos: productos, turnoSvc: turnoSvc, now: time.Now}
}

// ── Registro ──────────────────────────────────────────────────────────────────

func (s *ventaService) Registrar(ctx context.Context, turnoID uint, actor string, req dto.RegistrarVentaRequest) (*dto.RegistroVentaResponse, error) {
	tipo, pago, err := validarCabecera(req)
	if err != nil {
		return nil, err
	}
	cocina, delivery := model.EstadosIniciales(tipo)

	venta := model.Venta{
		MedioPago:      strings.TrimSpace(req.MedioPago),
		Estado:         model.VentaOK,
		TipoPedido:     tipo,
		Direccion:      strings.TrimSpace(req.Direccion),
		EstadoPago:     pago,
		EstadoCocina:   cocina,
		EstadoDelivery: delivery,
		PagaCon:        req.PagaCon,
		Usuario:        actor,
		CreatedAt:      s.now().UTC(),
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		items, err := resolverItems(ctx, tx, s.productos, req.Items)
		if err != nil {
			return err
		}
		venta.Items = items
		venta.Total = model.TotalItems(items)
		venta.Vuelto = model.CalcularVuelto(venta.PagaCon, venta.Total)
		return registrarEnTurno(ctx, tx, s.turnos, s.repo, turnoID, &venta)
	})
	if err != nil {
		return nil, storeErr(err)
	}

	infra.VentasRegistradas.WithLabelValues(string(venta.TipoPedido)).Inc()
	infra.VentasImporte.Add(float64(venta.Total))
	log.Info().
		Uint("venta_id", venta.ID).
		Uint("turno_id", turnoID).
		Int64("total", venta.Total).
		Str("tipo_pedido", string(venta.TipoPedido)).
		Msg("venta registrada")

	return &dto.RegistroVentaResponse{ID: venta.ID, Total: venta.Total, Vuelto: venta.Vuelto}, nil
}

func (s *ventaService) RegistrarEnTurnoActual(ctx context.Context, actor string, req dto.RegistrarVentaRequest) (*dto.RegistroVentaResponse, error) {
	turno, err := s.turnoSvc.ObtenerOAbrir(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.Registrar(ctx, turno.ID, actor, req)
}

func validarCabecera(req dto.RegistrarVentaRequest) (model.TipoPedido, model.EstadoPago, error) {
	errs := campos{}
	tipo := model.TipoPedido(req.TipoPedido)
	if !tipo.Valid() {
		errs["tipo_pedido"] = "debe ser mesa o delivery"
	}
	if strings.TrimSpace(req.MedioPago) == "" {
		errs["medio_pago"] = "requerido"
	}
	if tipo == model.TipoDelivery && strings.TrimSpace(req.Direccion) == "" {
		errs["direccion"] = "requerida para delivery"
	}
	pago := model.PagoPagado
	if req.EstadoPago != "" {
		pago = model.EstadoPago(req.EstadoPago)
		if !pago.Valid() {
			errs["estado_pago"] = "debe ser pagado o pendiente"
		}
	}
	if req.PagaCon < 0 {
		errs["paga_con"] = "no puede ser negativo"
	}
	return tipo, pago, errs.err()
}

// resolverItems drops zero-quantity lines and snapshots name and price of each
// product inside tx. Unknown or inactive products are validation errors.
func resolverItems(ctx context.Context, tx *gorm.DB, productos repository.ProductoRepository, req []dto.ItemRequest) ([]model.VentaItem, error) {
	errs := campos{}
	items := make([]model.VentaItem, 0, len(req))
	for i, it := range req {
		campo := fmt.Sprintf("items[%d]", i)
		if it.Cantidad < 0 {
			errs[campo+".cantidad"] = "no puede ser negativa"
			continue
		}
		if it.Cantidad == 0 {
			continue
		}
		p, err := productos.FindByIDTx(ctx, tx, it.ProductoID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !p.Activo) {
			errs[campo+".producto_id"] = fmt.Sprintf("producto %d inexistente o inactivo", it.ProductoID)
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, model.VentaItem{
			Producto:       p.Nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: p.Precio,
			Extras:         strings.TrimSpace(it.Extras),
			Observaciones:  strings.TrimSpace(it.Observaciones),
		})
	}
	if len(items) == 0 && len(errs) == 0 {
		errs["items"] = "debe incluir al menos un producto"
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return items, nil
}

// registrarEnTurno pins v to the shift and inserts it. The shift row is read
// with a shared lock so a concurrent close waits for this transaction.
func registrarEnTurno(ctx context.Context, tx *gorm.DB, turnos repository.TurnoRepository, ventas repository.VentaRepository, turnoID uint, v *model.Venta) error {
	t, err := turnos.FindByIDParaVenta(ctx, tx, turnoID)
	if err != nil {
		return mapFind(err, "turno", turnoID)
	}
	if t.Estado != model.TurnoAbierto {
		return fmt.Errorf("%w: el turno %d está cerrado", ErrInvalidState, turnoID)
	}
	v.TurnoID = turnoID
	return ventas.Create(ctx, tx, v)
}

// ── Modificaciones ────────────────────────────────────────────────────────────

// Editar replaces the line set and recomputes the total. Vuelto is left as recorded.
func (s *ventaService) Editar(ctx context.Context, id uint, req dto.EditarVentaRequest) (*dto.VentaResponse, error) {
	var venta *model.Venta
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindByIDTx(ctx, tx, id)
		if err != nil {
			return mapFind(err, "venta", id)
		}
		if v.Estado != model.VentaOK {
			return fmt.Errorf("%w: la venta %d está eliminada", ErrInvalidState, id)
		}
		items, err := resolverItems(ctx, tx, s.productos, req.Items)
		if err != nil {
			return err
		}
		if err := s.repo.ReemplazarItems(ctx, tx, id, items); err != nil {
			return err
		}
		total := model.TotalItems(items)
		n, err := s.repo.ActualizarSi(ctx, tx, id,
			map[string]interface{}{"estado": model.VentaOK},
			map[string]interface{}{"total": total})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: la venta %d cambió de estado", ErrInvalidState, id)
		}
		v.Items = items
		v.Total = total
		venta = v
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	infra.VentasTransiciones.WithLabelValues("editada").Inc()
	resp := ventaToResponse(venta)
	return &resp, nil
}

func (s *ventaService) Eliminar(ctx context.Context, id uint, actor string) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindByIDTx(ctx, tx, id)
		if err != nil {
			return mapFind(err, "venta", id)
		}
		if !v.Estado.PuedePasarA(model.VentaEliminada) {
			return fmt.Errorf("%w: la venta %d ya está eliminada", ErrInvalidState, id)
		}
		n, err := s.repo.ActualizarSi(ctx, tx, id,
			map[string]interface{}{"estado": model.VentaOK},
			map[string]interface{}{
				"estado":        model.VentaEliminada,
				"eliminada_en":  s.now().UTC(),
				"eliminada_por": actor,
			})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: la venta %d ya está eliminada", ErrInvalidState, id)
		}
		return nil
	})
	if err != nil {
		return storeErr(err)
	}
	infra.VentasTransiciones.WithLabelValues("eliminada").Inc()
	log.Info().Uint("venta_id", id).Str("usuario", actor).Msg("venta eliminada")
	return nil
}

// Reponer restores a deleted sale with its original lines and total. A sale
// restored into an already closed shift does not change the stored shift total.
func (s *ventaService) Reponer(ctx context.Context, id uint, actor, motivo string) (*dto.VentaResponse, error) {
	errs := campos{}
	if strings.TrimSpace(actor) == "" {
		errs["usuario"] = "requerido"
	}
	if strings.TrimSpace(motivo) == "" {
		errs["motivo"] = "requerido"
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindByIDTx(ctx, tx, id)
		if err != nil {
			return mapFind(err, "venta", id)
		}
		if !v.Estado.PuedePasarA(model.VentaOK) {
			return fmt.Errorf("%w: la venta %d no está eliminada", ErrInvalidState, id)
		}
		n, err := s.repo.ActualizarSi(ctx, tx, id,
			map[string]interface{}{"estado": model.VentaEliminada},
			map[string]interface{}{
				"estado":            model.VentaOK,
				"repuesta":          true,
				"repuesta_en":       s.now().UTC(),
				"repuesta_por":      actor,
				"motivo_reposicion": strings.TrimSpace(motivo),
			})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: la venta %d no está eliminada", ErrInvalidState, id)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	infra.VentasTransiciones.WithLabelValues("repuesta").Inc()
	log.Info().Uint("venta_id", id).Str("usuario", actor).Msg("venta repuesta")
	return s.Obtener(ctx, id)
}

// Cobrar settles a pending payment and records the cash handed over.
func (s *ventaService) Cobrar(ctx context.Context, id uint, pagaCon int64) (*dto.VentaResponse, error) {
	if pagaCon < 0 {
		return nil, invalido("paga_con", "no puede ser negativo")
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		v, err := s.repo.FindByIDTx(ctx, tx, id)
		if err != nil {
			return mapFind(err, "venta", id)
		}
		if v.Estado != model.VentaOK {
			return fmt.Errorf("%w: la venta %d está eliminada", ErrInvalidState, id)
		}
		if v.EstadoPago != model.PagoPendiente {
			return fmt.Errorf("%w: la venta %d ya está pagada", ErrInvalidState, id)
		}
		n, err := s.repo.ActualizarSi(ctx, tx, id,
			map[string]interface{}{"estado": model.VentaOK, "estado_pago": model.PagoPendiente},
			map[string]interface{}{
				"estado_pago": model.PagoPagado,
				"paga_con":    pagaCon,
				"vuelto":      model.CalcularVuelto(pagaCon, v.Total),
			})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: la venta %d ya está pagada", ErrInvalidState, id)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	infra.VentasTransiciones.WithLabelValues("cobrada").Inc()
	return s.Obtener(ctx, id)
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) Obtener(ctx context.Context, id uint) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFind(err, "venta", id)
	}
	resp := ventaToResponse(v)
	return &resp, nil
}

func (s *ventaService) ListarPorTurno(ctx context.Context, turnoID uint, incluirEliminadas bool) ([]dto.VentaResponse, error) {
	if _, err := s.turnos.FindByID(ctx, turnoID); err != nil {
		return nil, mapFind(err, "turno", turnoID)
	}
	ventas, err := s.repo.ListByTurno(ctx, turnoID, incluirEliminadas)
	if err != nil {
		return nil, storeErr(err)
	}
	return ventasToResponse(ventas), nil
}
