// Package cli implements barctl, the operator command line: schema
// migrations, catalog and user seeding, closing the shift from the counter
// and quick sales reports.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/gasttonvargas/facturador-bar/internal/config"
	"github.com/gasttonvargas/facturador-bar/internal/infra"
	"github.com/gasttonvargas/facturador-bar/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Error codes printed by OutputFormatter.Error.
const (
	ErrCodeConfig     = "E001"
	ErrCodeDatabase   = "E002"
	ErrCodeInput      = "E003"
	ErrCodeRechazada  = "E004"
	ErrCodeNoEncontro = "E005"
)

type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "barctl",
		Short: "Operaciones de mostrador para el facturador del bar",
		Long: `barctl opera sobre la misma base que el servidor HTTP.

Lee la configuracion del entorno (DB_DRIVER, DATABASE_URL, TIMEZONE, ...)
igual que el servidor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range ValidFormats {
				if f == opts.Format {
					return nil
				}
			}
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedProductsCommand(opts))
	cmd.AddCommand(NewCreateUserCommand(opts))
	cmd.AddCommand(NewCloseShiftCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// entorno loads config and opens the database. Commands run without Redis or
// RabbitMQ: the menu cache is skipped and no events are published.
type entorno struct {
	cfg *config.Config
	db  *gorm.DB
	svc *service.Servicios
}

func (o *RootOptions) abrir(ctx context.Context, f *OutputFormatter, migrar bool) (*entorno, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		_ = f.Error(ErrCodeConfig, err.Error())
		return nil, nil, WrapExitError(ExitCommandError, "config", err)
	}
	f.VerboseLog("database: %s", cfg.DBDriver)
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		_ = f.Error(ErrCodeDatabase, err.Error())
		return nil, nil, WrapExitError(ExitCommandError, "database", err)
	}
	cerrar := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if migrar {
		if err := infra.Migrate(ctx, db, cfg.DBDriver); err != nil {
			cerrar()
			_ = f.Error(ErrCodeDatabase, err.Error())
			return nil, nil, WrapExitError(ExitCommandError, "migrate", err)
		}
	}
	return &entorno{cfg: cfg, db: db, svc: service.NewServicios(cfg, db, nil, nil, nil)}, cerrar, nil
}

// fallo prints err and maps domain errors to ExitFailure.
func fallo(f *OutputFormatter, err error) error {
	code, exit := ErrCodeDatabase, ExitCommandError
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		code = ErrCodeInput
	case errors.Is(err, service.ErrNotFound):
		code, exit = ErrCodeNoEncontro, ExitFailure
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrTurnoYaAbierto):
		code, exit = ErrCodeRechazada, ExitFailure
	}
	_ = f.Error(code, err.Error())
	return WrapExitError(exit, "command failed", err)
}
