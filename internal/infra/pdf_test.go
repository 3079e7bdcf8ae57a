package infra

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComandaPDF(t *testing.T) {
	var buf bytes.Buffer
	err := ComandaPDF(&buf, dto.VentaResponse{
		ID:         3,
		TipoPedido: "mesa",
		CreatedAt:  time.Now(),
		Items: []dto.VentaItemResponse{
			{Producto: "Hamburguesa Común", Cantidad: 2, Extras: "huevo"},
		},
	}, time.UTC)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerarCierrePDF(t *testing.T) {
	dir := t.TempDir()
	cerrado := time.Now()
	usuario := "admin"
	path, err := GenerarCierrePDF("La Esquina", dto.CierreTurnoResponse{
		Turno: dto.TurnoResponse{ID: 12, Fecha: "2026-10-18", Total: 350, UsuarioApertura: "admin", UsuarioCierre: &usuario, CerradoEn: &cerrado},
		Productos: []dto.ProductoVendidoResponse{
			{Producto: "Agua", Cantidad: 2, Total: 200},
			{Producto: "Café", Cantidad: 1, Total: 150},
		},
	}, time.UTC, dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Contains(t, path, "cierre_turno_12.pdf")
}
