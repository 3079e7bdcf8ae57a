package cli

import (
	"fmt"
	"strconv"

	"github.com/gasttonvargas/facturador-bar/internal/ticket"

	"github.com/spf13/cobra"
)

func NewCloseShiftCommand(rootOpts *RootOptions) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "close-shift",
		Short: "Close the open shift and print its close ticket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			env, cerrar, err := rootOpts.abrir(cmd.Context(), f, false)
			if err != nil {
				return err
			}
			defer cerrar()

			cierre, err := env.svc.Turnos.Cerrar(cmd.Context(), actor)
			if err != nil {
				return fallo(f, err)
			}
			return f.Success(cierre, ticket.Cierre(env.cfg.NombreNegocio, *cierre, env.cfg.Location()))
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "barctl", "name recorded as the user who closed the shift")
	return cmd
}

func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <turno-id>",
		Short: "Compare a closed shift's stored total with its sales",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				_ = f.Error(ErrCodeInput, "turno-id must be a positive integer")
				return WrapExitError(ExitCommandError, "invalid turno-id", err)
			}
			env, cerrar, err := rootOpts.abrir(cmd.Context(), f, false)
			if err != nil {
				return err
			}
			defer cerrar()

			c, err := env.svc.Turnos.Conciliar(cmd.Context(), uint(id))
			if err != nil {
				return fallo(f, err)
			}
			texto := fmt.Sprintf("turno %d: registrado %s, recalculado %s, diferencia %s",
				id, ticket.Monto(c.TotalRegistrado), ticket.Monto(c.TotalRecalculado), ticket.Monto(c.Diferencia))
			return f.Success(c, texto)
		},
	}
}
