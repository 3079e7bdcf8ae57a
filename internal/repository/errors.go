package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicado is returned when an insert or update hits a unique index.
var ErrDuplicado = errors.New("duplicate key")

// esViolacionUnica recognises unique violations from either backend, translated
// by GORM or not.
func esViolacionUnica(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	return false
}

func traducir(err error) error {
	if err != nil && esViolacionUnica(err) {
		return fmt.Errorf("%w: %v", ErrDuplicado, err)
	}
	return err
}

// Row lock strengths. SQLite ignores them; its single writer already serializes.
var (
	paraActualizar = clause.Locking{Strength: "UPDATE"}
	paraCompartir  = clause.Locking{Strength: "SHARE"}
)

// conn returns tx when the call participates in a transaction.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
