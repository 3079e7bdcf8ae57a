package cli

import (
	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			env, cerrar, err := rootOpts.abrir(cmd.Context(), f, true)
			if err != nil {
				return err
			}
			defer cerrar()
			return f.Success(map[string]string{"driver": env.cfg.DBDriver}, "schema up to date ("+env.cfg.DBDriver+")")
		},
	}
}
