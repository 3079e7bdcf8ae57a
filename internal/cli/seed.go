package cli

import (
	"fmt"
	"os"

	"github.com/gasttonvargas/facturador-bar/internal/dto"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type seedOptions struct {
	reemplazar bool
}

func NewSeedProductsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed-products <catalogo.yaml>",
		Short: "Load the product catalog from a YAML file",
		Long: `Upserts every product by name.

With --replace, active products missing from the file are deactivated.
Sales already recorded keep the name and price they were sold at.

File format:

  productos:
    - nombre: Lomito completo
      precio: 9500
      categoria: Sanguches
      tipo: sanguche`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			raw, err := os.ReadFile(args[0])
			if err != nil {
				_ = f.Error(ErrCodeInput, err.Error())
				return WrapExitError(ExitCommandError, "read catalog", err)
			}
			var archivo dto.CatalogoArchivo
			if err := yaml.Unmarshal(raw, &archivo); err != nil {
				_ = f.Error(ErrCodeInput, err.Error())
				return WrapExitError(ExitCommandError, "parse catalog", err)
			}

			env, cerrar, err := rootOpts.abrir(cmd.Context(), f, true)
			if err != nil {
				return err
			}
			defer cerrar()

			res, err := env.svc.Catalogo.Sincronizar(cmd.Context(), archivo.Productos, opts.reemplazar)
			if err != nil {
				return fallo(f, err)
			}
			return f.Success(res, fmt.Sprintf("%d productos cargados, %d desactivados", res.Actualizados, res.Desactivados))
		},
	}
	cmd.Flags().BoolVar(&opts.reemplazar, "replace", false, "deactivate products not present in the file")
	return cmd
}
