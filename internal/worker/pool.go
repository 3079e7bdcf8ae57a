package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gasttonvargas/facturador-bar/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReportes = "jobs:reportes"
	QueueEmail    = "jobs:email"

	TipoReporteTurno = "reporte_turno"
	TipoEmail        = "email"

	// MaxIntentos is how many times a job runs before it goes to the DLQ.
	MaxIntentos = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Processor handles the payload of one job type. A returned error schedules a retry.
type Processor interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarReporteTurno schedules the PDF close report for a shift.
func (d *Dispatcher) EncolarReporteTurno(ctx context.Context, turnoID uint) error {
	return d.enqueue(ctx, QueueReportes, TipoReporteTurno, ReporteTurnoPayload{TurnoID: turnoID})
}

func (d *Dispatcher) EncolarEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, TipoEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes QueueReportes and QueueEmail with a fixed number of goroutines.
type Pool struct {
	rdb        *redis.Client
	processors map[string]Processor
	espera     time.Duration
}

func NewPool(rdb *redis.Client, processors map[string]Processor) *Pool {
	return &Pool{rdb: rdb, processors: processors, espera: 5 * time.Second}
}

// Run blocks until ctx is cancelled and every worker has returned.
func (p *Pool) Run(ctx context.Context, numWorkers int) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.runWorker(ctx, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	wg.Wait()
	return nil
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	queues := []string{QueueReportes, QueueEmail}
	for {
		if ctx.Err() != nil {
			log.Info().Msgf("worker %d shutting down", id)
			return
		}
		// Blocking pop; the timeout only bounds how long a shutdown waits.
		result, err := p.rdb.BRPop(ctx, p.espera, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.procesar(ctx, result[0], result[1])
	}
}

func (p *Pool) procesar(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "", json.RawMessage(fmt.Sprintf("%q", raw)), "payload ilegible", 0)
		infra.JobsProcesados.WithLabelValues("desconocido", "dlq").Inc()
		return
	}

	proc, ok := p.processors[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "tipo de job sin procesador", job.Attempts)
		infra.JobsProcesados.WithLabelValues(job.Type, "dlq").Inc()
		return
	}

	err := proc.Process(ctx, job.Payload)
	if err == nil {
		infra.JobsProcesados.WithLabelValues(job.Type, "ok").Inc()
		return
	}

	job.Attempts++
	if job.Attempts >= MaxIntentos {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		infra.JobsProcesados.WithLabelValues(job.Type, "dlq").Inc()
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).Msg("job failed, requeued")
	if perr := push(ctx, p.rdb, queue, job); perr != nil {
		log.Error().Err(perr).Str("queue", queue).Msg("failed to requeue job")
	}
	infra.JobsProcesados.WithLabelValues(job.Type, "retry").Inc()
}
