package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/model"
	"github.com/gasttonvargas/facturador-bar/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const menuCacheKey = "menu:v1"

// CatalogoService serves the public menu and imports the product catalog.
type CatalogoService interface {
	Menu(ctx context.Context) (*dto.MenuResponse, error)
	InvalidarMenu(ctx context.Context) error
	// Sincronizar upserts every product by name. With reemplazar, products
	// missing from the list are deactivated.
	Sincronizar(ctx context.Context, productos []dto.ProductoCatalogo, reemplazar bool) (*dto.SincronizacionResponse, error)
}

type catalogoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCatalogoService builds the catalog service. A nil rdb disables the menu cache.
func NewCatalogoService(repo repository.ProductoRepository, rdb *redis.Client, ttl time.Duration) CatalogoService {
	return &catalogoService{repo: repo, rdb: rdb, ttl: ttl}
}

func (s *catalogoService) Menu(ctx context.Context) (*dto.MenuResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, menuCacheKey).Bytes(); err == nil {
			var resp dto.MenuResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	productos, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	resp := &dto.MenuResponse{Categorias: []dto.MenuCategoriaResponse{}}
	for _, p := range productos {
		n := len(resp.Categorias)
		if n == 0 || resp.Categorias[n-1].Categoria != p.Categoria {
			resp.Categorias = append(resp.Categorias, dto.MenuCategoriaResponse{Categoria: p.Categoria})
			n++
		}
		resp.Categorias[n-1].Productos = append(resp.Categorias[n-1].Productos, dto.MenuItemResponse{
			ID:        p.ID,
			Nombre:    p.Nombre,
			Precio:    p.Precio,
			Categoria: p.Categoria,
			Tipo:      string(p.Tipo),
		})
	}

	// best effort
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			if err := s.rdb.Set(ctx, menuCacheKey, b, s.ttl).Err(); err != nil {
				log.Debug().Err(err).Msg("menu no cacheado")
			}
		}
	}
	return resp, nil
}

func (s *catalogoService) InvalidarMenu(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, menuCacheKey).Err()
}

func (s *catalogoService) Sincronizar(ctx context.Context, productos []dto.ProductoCatalogo, reemplazar bool) (*dto.SincronizacionResponse, error) {
	errs := campos{}
	vistos := map[string]bool{}
	for i, p := range productos {
		campo := fmt.Sprintf("productos[%d]", i)
		nombre := strings.TrimSpace(p.Nombre)
		switch {
		case nombre == "":
			errs[campo+".nombre"] = "requerido"
		case vistos[nombre]:
			errs[campo+".nombre"] = "duplicado"
		}
		vistos[nombre] = true
		if p.Precio < 0 {
			errs[campo+".precio"] = "no puede ser negativo"
		}
		if strings.TrimSpace(p.Categoria) == "" {
			errs[campo+".categoria"] = "requerida"
		}
		if p.Tipo != "" && !model.TipoProducto(p.Tipo).Valid() {
			errs[campo+".tipo"] = "debe ser normal, sanguche o especial"
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	nombres := make([]string, 0, len(productos))
	for _, p := range productos {
		tipo := model.TipoProducto(p.Tipo)
		if tipo == "" {
			tipo = model.ProductoNormal
		}
		prod := &model.Producto{
			Nombre:    strings.TrimSpace(p.Nombre),
			Precio:    p.Precio,
			Categoria: strings.TrimSpace(p.Categoria),
			Tipo:      tipo,
			Activo:    true,
		}
		if err := s.repo.Upsert(ctx, prod); err != nil {
			return nil, storeErr(err)
		}
		nombres = append(nombres, prod.Nombre)
	}

	resp := &dto.SincronizacionResponse{Actualizados: len(nombres)}
	if reemplazar {
		n, err := s.repo.DesactivarExcepto(ctx, nombres)
		if err != nil {
			return nil, storeErr(err)
		}
		resp.Desactivados = n
	}
	if err := s.InvalidarMenu(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar el menu cacheado")
	}
	return resp, nil
}
