package cli

import (
	"fmt"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/model"

	"github.com/spf13/cobra"
)

func NewCreateUserCommand(rootOpts *RootOptions) *cobra.Command {
	req := dto.CrearUsuarioRequest{}
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user, or reset the password and role of an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			if req.Nombre == "" {
				req.Nombre = req.Username
			}
			env, cerrar, err := rootOpts.abrir(cmd.Context(), f, true)
			if err != nil {
				return err
			}
			defer cerrar()

			u, err := env.svc.Auth.GuardarUsuario(cmd.Context(), req)
			if err != nil {
				return fallo(f, err)
			}
			return f.Success(u, fmt.Sprintf("usuario %s (%s) listo", u.Username, u.Rol))
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "login name")
	cmd.Flags().StringVar(&req.Nombre, "nombre", "", "display name (defaults to username)")
	cmd.Flags().StringVar(&req.Password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&req.Rol, "rol", model.RolCajero, "cajero | administrador")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
