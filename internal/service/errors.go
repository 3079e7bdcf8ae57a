package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gasttonvargas/facturador-bar/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("no encontrado")
	ErrInvalidState = errors.New("estado inválido")
	ErrValidation   = errors.New("datos inválidos")
	// ErrTurnoYaAbierto is returned when a concurrent opener kept winning the race.
	ErrTurnoYaAbierto  = errors.New("ya hay un turno abierto")
	ErrSinTurnoAbierto = fmt.Errorf("%w: no hay turno abierto", ErrInvalidState)
	// ErrStore wraps persistence failures that are not a domain outcome.
	ErrStore = errors.New("error de almacenamiento")
)

// ValidationError carries per-field messages. errors.Is(err, ErrValidation) holds.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	claves := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		claves = append(claves, k)
	}
	sort.Strings(claves)
	partes := make([]string, 0, len(claves))
	for _, k := range claves {
		partes = append(partes, k+": "+e.Fields[k])
	}
	return "datos inválidos: " + strings.Join(partes, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalido(campo, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{campo: msg}}
}

// campos collects field errors and yields nil when there are none.
type campos map[string]string

func (c campos) err() error {
	if len(c) == 0 {
		return nil
	}
	return &ValidationError{Fields: c}
}

func esDominio(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrTurnoYaAbierto) ||
		errors.Is(err, ErrStore) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// storeErr passes domain outcomes through and tags anything else as ErrStore.
func storeErr(err error) error {
	if err == nil || esDominio(err) {
		return err
	}
	if errors.Is(err, repository.ErrDuplicado) {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}

// mapFind turns a missing row into ErrNotFound naming the entity.
func mapFind(err error, entidad string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, entidad, id)
	}
	return storeErr(err)
}

// runTx executes fn inside a GORM transaction bound to ctx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
