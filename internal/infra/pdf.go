package infra

// pdf.go: thermal-paper PDFs rendered with go-pdf/fpdf.
//   - comanda: kitchen ticket for one sale (no prices)
//   - cierre: shift-close report with product breakdown and total, mailed to the owner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"
	"github.com/gasttonvargas/facturador-bar/internal/ticket"

	"github.com/go-pdf/fpdf"
)

const (
	anchoPapel = 80.0 // mm
	margen     = 4.0
)

func nuevoTicketPDF(alto float64) (*fpdf.Fpdf, func(string) string, float64) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: anchoPapel, Ht: alto},
	})
	pdf.SetMargins(margen, margen, margen)
	pdf.SetAutoPageBreak(true, margen)
	pdf.AddPage()
	// core fonts are cp1252; translate accents (Común, Pequeña)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return pdf, tr, anchoPapel - 2*margen
}

func separador(pdf *fpdf.Fpdf) {
	pdf.Ln(1)
	pdf.Line(margen, pdf.GetY(), anchoPapel-margen, pdf.GetY())
	pdf.Ln(2)
}

// ComandaPDF writes the kitchen ticket of a sale to w.
func ComandaPDF(w io.Writer, v dto.VentaResponse, loc *time.Location) error {
	alto := 60.0 + float64(len(v.Items))*12
	pdf, tr, contentW := nuevoTicketPDF(alto)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 7, fmt.Sprintf("COMANDA #%d", v.ID), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if v.TipoPedido == "delivery" {
		pdf.CellFormat(contentW, 5, "DELIVERY", "", 1, "L", false, 0, "")
		if v.Direccion != "" {
			pdf.MultiCell(contentW, 4, tr("Dir: "+v.Direccion), "", "L", false)
		}
	} else {
		pdf.CellFormat(contentW, 5, "MESA", "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, v.CreatedAt.In(loc).Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	separador(pdf)

	for _, it := range v.Items {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(contentW, 5, tr(fmt.Sprintf("%d x %s", it.Cantidad, it.Producto)), "", "L", false)
		pdf.SetFont("Helvetica", "", 8)
		if it.Extras != "" {
			pdf.MultiCell(contentW, 4, tr("   + "+it.Extras), "", "L", false)
		}
		if it.Observaciones != "" {
			pdf.MultiCell(contentW, 4, tr("   obs: "+it.Observaciones), "", "L", false)
		}
	}

	return pdf.Output(w)
}

// GenerarCierrePDF writes the shift-close report to storagePath/cierre_turno_{id}.pdf
// and returns the file path.
func GenerarCierrePDF(negocio string, c dto.CierreTurnoResponse, loc *time.Location, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("cierre_turno_%d.pdf", c.Turno.ID))

	alto := 80.0 + float64(len(c.Productos))*5
	pdf, tr, contentW := nuevoTicketPDF(alto)

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(negocio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Cierre de turno #%d", c.Turno.ID), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Fecha: "+c.Turno.Fecha, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr(fmt.Sprintf("Apertura: %s %s", c.Turno.UsuarioApertura, c.Turno.AbiertoEn.In(loc).Format("15:04"))), "", 1, "L", false, 0, "")
	if c.Turno.CerradoEn != nil && c.Turno.UsuarioCierre != nil {
		pdf.CellFormat(contentW, 4, tr(fmt.Sprintf("Cierre: %s %s", *c.Turno.UsuarioCierre, c.Turno.CerradoEn.In(loc).Format("15:04"))), "", 1, "L", false, 0, "")
	}
	separador(pdf)

	// ── Breakdown ────────────────────────────────────────────────────────────
	col1 := contentW * 0.56
	col2 := contentW * 0.14
	col3 := contentW * 0.30

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Importe", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, p := range c.Productos {
		pdf.CellFormat(col1, 5, tr(p.Producto), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", p.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, ticket.Monto(p.Total), "", 1, "R", false, 0, "")
	}
	separador(pdf)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, ticket.Monto(c.Turno.Total), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
