package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/dto"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type procFunc func(ctx context.Context, payload json.RawMessage) error

func (f procFunc) Process(ctx context.Context, payload json.RawMessage) error { return f(ctx, payload) }

type stubMailer struct {
	mu     sync.Mutex
	envios []EmailJobPayload
	err    error
}

func (m *stubMailer) Enviar(to, subject, body, pdfPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.envios = append(m.envios, EmailJobPayload{ToEmail: to, Subject: subject, Body: body, PDFPath: pdfPath})
	return nil
}

type stubResumidor struct {
	resp *dto.CierreTurnoResponse
	err  error
}

func (s stubResumidor) Resumen(_ context.Context, _ uint) (*dto.CierreTurnoResponse, error) {
	return s.resp, s.err
}

func popJob(t *testing.T, rdb *redis.Client, queue string) Job {
	t.Helper()
	raw, err := rdb.RPop(context.Background(), queue).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	return job
}

func TestDispatcher_EncolarReporteTurno(t *testing.T) {
	rdb := newRedis(t)
	d := NewDispatcher(rdb)

	require.NoError(t, d.EncolarReporteTurno(context.Background(), 42))

	job := popJob(t, rdb, QueueReportes)
	assert.Equal(t, TipoReporteTurno, job.Type)
	assert.Zero(t, job.Attempts)
	assert.JSONEq(t, `{"turno_id":42}`, string(job.Payload))
}

func TestPool_ReintentaYMandaADLQ(t *testing.T) {
	ctx := context.Background()
	rdb := newRedis(t)
	llamadas := 0
	p := NewPool(rdb, map[string]Processor{
		TipoEmail: procFunc(func(context.Context, json.RawMessage) error {
			llamadas++
			return errors.New("smtp caido")
		}),
	})
	require.NoError(t, NewDispatcher(rdb).EncolarEmail(ctx, EmailJobPayload{ToEmail: "a@b.c"}))

	for i := 1; i < MaxIntentos; i++ {
		raw, err := rdb.RPop(ctx, QueueEmail).Result()
		require.NoError(t, err)
		p.procesar(ctx, QueueEmail, raw)

		n, err := DLQLength(ctx, rdb, QueueEmail)
		require.NoError(t, err)
		assert.Zero(t, n, "intento %d no debe ir a la DLQ", i)
	}

	raw, err := rdb.RPop(ctx, QueueEmail).Result()
	require.NoError(t, err)
	p.procesar(ctx, QueueEmail, raw)

	assert.Equal(t, MaxIntentos, llamadas)
	assert.Zero(t, rdb.LLen(ctx, QueueEmail).Val())
	entries, err := DLQEntries(ctx, rdb, QueueEmail, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "smtp caido", entries[0].Reason)
	assert.Equal(t, MaxIntentos, entries[0].Attempts)
	assert.Equal(t, TipoEmail, entries[0].JobType)
}

func TestPool_TipoDesconocidoVaALaDLQ(t *testing.T) {
	ctx := context.Background()
	rdb := newRedis(t)
	p := NewPool(rdb, nil)

	p.procesar(ctx, QueueReportes, `{"type":"otro","payload":{}}`)
	p.procesar(ctx, QueueReportes, `no es json`)

	n, err := DLQLength(ctx, rdb, QueueReportes)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestPool_RunConsumeHastaCancelar(t *testing.T) {
	rdb := newRedis(t)
	hechos := make(chan uint, 1)
	p := NewPool(rdb, map[string]Processor{
		TipoReporteTurno: procFunc(func(_ context.Context, raw json.RawMessage) error {
			var pl ReporteTurnoPayload
			if err := json.Unmarshal(raw, &pl); err != nil {
				return err
			}
			hechos <- pl.TurnoID
			return nil
		}),
	})
	p.espera = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, 2) }()

	require.NoError(t, NewDispatcher(rdb).EncolarReporteTurno(context.Background(), 7))
	select {
	case id := <-hechos:
		assert.EqualValues(t, 7, id)
	case <-time.After(3 * time.Second):
		t.Fatal("el job no fue procesado")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("el pool no se detuvo")
	}
}

func TestEmailWorker(t *testing.T) {
	m := &stubMailer{}
	w := NewEmailWorker(m)

	require.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to_email":"caja@bar.com","subject":"s"}`)))
	require.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to_email":""}`)))
	require.NoError(t, w.Process(context.Background(), json.RawMessage(`{`)))
	require.Len(t, m.envios, 1)
	assert.Equal(t, "caja@bar.com", m.envios[0].ToEmail)

	m.err = errors.New("conexion rechazada")
	assert.Error(t, w.Process(context.Background(), json.RawMessage(`{"to_email":"caja@bar.com"}`)))
}

func resumenDePrueba() *dto.CierreTurnoResponse {
	cerrado := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	cajero := "cajero"
	return &dto.CierreTurnoResponse{
		Turno: dto.TurnoResponse{
			ID: 9, Fecha: "2026-10-18", Estado: "cerrado", Total: 35000,
			UsuarioApertura: "cajero", UsuarioCierre: &cajero,
			AbiertoEn: cerrado.Add(-8 * time.Hour), CerradoEn: &cerrado,
		},
		Productos: []dto.ProductoVendidoResponse{{Producto: "Hamburguesa", Cantidad: 3, Total: 19500}},
	}
}

func TestReporteTurnoWorker_GeneraPDFYEncolaEmail(t *testing.T) {
	ctx := context.Background()
	rdb := newRedis(t)
	dir := t.TempDir()
	w := NewReporteTurnoWorker(stubResumidor{resp: resumenDePrueba()}, NewDispatcher(rdb), "Bar", "duenio@bar.com", dir, time.UTC)

	require.NoError(t, w.Process(ctx, json.RawMessage(`{"turno_id":9}`)))

	path := filepath.Join(dir, "cierre_turno_9.pdf")
	_, err := os.Stat(path)
	require.NoError(t, err)

	job := popJob(t, rdb, QueueEmail)
	var pl EmailJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &pl))
	assert.Equal(t, "duenio@bar.com", pl.ToEmail)
	assert.Equal(t, path, pl.PDFPath)
	assert.Contains(t, pl.Subject, "2026-10-18")
}

func TestReporteTurnoWorker_SinDestinoNoEncola(t *testing.T) {
	ctx := context.Background()
	rdb := newRedis(t)
	w := NewReporteTurnoWorker(stubResumidor{resp: resumenDePrueba()}, NewDispatcher(rdb), "Bar", "", t.TempDir(), time.UTC)

	require.NoError(t, w.Process(ctx, json.RawMessage(`{"turno_id":9}`)))
	assert.Zero(t, rdb.LLen(ctx, QueueEmail).Val())
}

func TestReporteTurnoWorker_ErrorDeResumenSeReintenta(t *testing.T) {
	w := NewReporteTurnoWorker(stubResumidor{err: errors.New("db caida")}, nil, "Bar", "", t.TempDir(), time.UTC)
	assert.Error(t, w.Process(context.Background(), json.RawMessage(`{"turno_id":9}`)))
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"turno_id":0}`)))
}
