// Package ticket renders the plain-text tickets printed on the 80mm thermal
// printers: the kitchen comanda and the shift-close summary.
package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Ancho is the printable width in characters.
const Ancho = 32

var impresora = message.NewPrinter(language.Spanish)

// Monto formats an amount in currency units with Spanish digit grouping ("$ 15.000").
func Monto(v int64) string {
	if v < 0 {
		return impresora.Sprintf("-$ %d", -v)
	}
	return impresora.Sprintf("$ %d", v)
}

func linea(c string) string { return strings.Repeat(c, Ancho) }

func centrado(s string) string {
	n := len([]rune(s))
	if n >= Ancho {
		return s
	}
	return strings.Repeat(" ", (Ancho-n)/2) + s
}

// columnas left-aligns izq and right-aligns der on one line.
func columnas(izq, der string) string {
	espacio := Ancho - len([]rune(izq)) - len([]rune(der))
	if espacio < 1 {
		espacio = 1
	}
	return izq + strings.Repeat(" ", espacio) + der
}

// Comanda renders the kitchen ticket for a sale. Prices are omitted.
func Comanda(v dto.VentaResponse, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(linea("=") + "\n")
	b.WriteString(centrado(fmt.Sprintf("COMANDA #%d", v.ID)) + "\n")
	if v.TipoPedido == "delivery" {
		b.WriteString("DELIVERY\n")
		if v.Direccion != "" {
			b.WriteString("Dir: " + v.Direccion + "\n")
		}
	} else {
		b.WriteString("MESA\n")
	}
	b.WriteString(v.CreatedAt.In(loc).Format("02/01/2006 15:04") + "\n")
	b.WriteString(linea("-") + "\n")
	for _, it := range v.Items {
		b.WriteString(fmt.Sprintf("%d x %s\n", it.Cantidad, it.Producto))
		if it.Extras != "" {
			b.WriteString("    + " + it.Extras + "\n")
		}
		if it.Observaciones != "" {
			b.WriteString("    obs: " + it.Observaciones + "\n")
		}
	}
	b.WriteString(linea("=") + "\n")
	return b.String()
}

// Cierre renders the shift-close summary.
func Cierre(negocio string, c dto.CierreTurnoResponse, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(centrado(negocio) + "\n")
	b.WriteString(centrado(fmt.Sprintf("CIERRE DE TURNO #%d", c.Turno.ID)) + "\n")
	b.WriteString(linea("=") + "\n")
	b.WriteString("Fecha: " + c.Turno.Fecha + "\n")
	b.WriteString(fmt.Sprintf("Apertura: %s %s\n", c.Turno.UsuarioApertura, c.Turno.AbiertoEn.In(loc).Format("15:04")))
	if c.Turno.CerradoEn != nil && c.Turno.UsuarioCierre != nil {
		b.WriteString(fmt.Sprintf("Cierre:   %s %s\n", *c.Turno.UsuarioCierre, c.Turno.CerradoEn.In(loc).Format("15:04")))
	}
	b.WriteString(linea("-") + "\n")
	b.WriteString(columnas("Producto", "Cant") + "\n")
	for _, p := range c.Productos {
		nombre := p.Producto
		if r := []rune(nombre); len(r) > Ancho-6 {
			nombre = string(r[:Ancho-7]) + "."
		}
		b.WriteString(columnas(nombre, fmt.Sprintf("%d", p.Cantidad)) + "\n")
	}
	b.WriteString(linea("-") + "\n")
	b.WriteString(columnas("TOTAL", Monto(c.Turno.Total)) + "\n")
	return b.String()
}
