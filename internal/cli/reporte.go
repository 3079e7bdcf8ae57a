package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/ticket"

	"github.com/spf13/cobra"
)

type reporteCLI struct {
	Periodo *dto.PeriodoResponse      `json:"periodo"`
	Top     *dto.TopProductosResponse `json:"top_productos"`
}

func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	q := dto.RangoQuery{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sales total and best sellers for a date range",
		Long: `Sales total and best sellers for [desde, hasta).

Dates are YYYY-MM-DD in the business time zone. Without flags the report
covers today.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			env, cerrar, err := rootOpts.abrir(cmd.Context(), f, false)
			if err != nil {
				return err
			}
			defer cerrar()

			if q.Desde == "" {
				hoy := time.Now().In(env.cfg.Location())
				q.Desde = hoy.Format("2006-01-02")
				if q.Hasta == "" {
					q.Hasta = hoy.AddDate(0, 0, 1).Format("2006-01-02")
				}
			}

			periodo, err := env.svc.Reportes.Periodo(cmd.Context(), q)
			if err != nil {
				return fallo(f, err)
			}
			top, err := env.svc.Reportes.TopProductos(cmd.Context(), q)
			if err != nil {
				return fallo(f, err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s a %s: %d ventas, %s\n", periodo.Desde, periodo.Hasta, periodo.Cantidad, ticket.Monto(periodo.Total))
			for i, p := range top.Productos {
				fmt.Fprintf(&b, "%2d. %-24s %4d  %s\n", i+1, p.Producto, p.Cantidad, ticket.Monto(p.Total))
			}
			return f.Success(reporteCLI{Periodo: periodo, Top: top}, strings.TrimRight(b.String(), "\n"))
		},
	}
	cmd.Flags().StringVar(&q.Desde, "desde", "", "first day, inclusive")
	cmd.Flags().StringVar(&q.Hasta, "hasta", "", "last day, exclusive")
	cmd.Flags().IntVar(&q.Limite, "limite", 10, "best sellers to list")
	return cmd
}
