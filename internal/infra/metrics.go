package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain metrics exposed on /metrics.
var (
	VentasRegistradas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bar_ventas_registradas_total",
		Help: "Sales recorded, by order type.",
	}, []string{"tipo_pedido"})

	VentasImporte = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bar_ventas_importe_total",
		Help: "Sum of recorded sale totals in currency units.",
	})

	VentasTransiciones = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bar_ventas_transiciones_total",
		Help: "Sale state changes: eliminada, repuesta, editada, cobrada.",
	}, []string{"accion"})

	TurnosCerrados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bar_turnos_cerrados_total",
		Help: "Shifts closed.",
	})

	TurnoConflictos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bar_turno_apertura_conflictos_total",
		Help: "Concurrent shift openings resolved by the single-open index.",
	})

	PedidosResueltos = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bar_pedidos_total",
		Help: "Table orders by resulting state.",
	}, []string{"estado"})

	JobsProcesados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bar_jobs_procesados_total",
		Help: "Async jobs by type and outcome (ok, retry, dlq).",
	}, []string{"tipo", "resultado"})

	HTTPDuracion = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bar_http_request_duration_seconds",
		Help:    "HTTP request latency by method, route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	circuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bar_circuit_breaker_state",
		Help: "0 closed, 1 open, 2 half-open.",
	}, []string{"name"})
)
