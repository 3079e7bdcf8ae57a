package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gasttonvargas/facturador-bar/internal/config"
	"github.com/gasttonvargas/facturador-bar/internal/infra"
	"github.com/gasttonvargas/facturador-bar/internal/middleware"
	"github.com/gasttonvargas/facturador-bar/internal/router"
	"github.com/gasttonvargas/facturador-bar/internal/service"
	"github.com/gasttonvargas/facturador-bar/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in development, JSON in production.
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = uuid.NewString()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral secret; tokens die with the process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}
	if err := infra.Migrate(ctx, db, cfg.DBDriver); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Redis and RabbitMQ are optional; without them the menu is not cached,
	// close reports are not generated and no events are published.
	var (
		eventos service.Publicador
		cola    service.Encolador
		broker  *infra.CircuitBreaker
	)
	rdb, err := conectarRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if cfg.RabbitMQURL != "" {
		pub, err := infra.NewRabbitPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer pub.Close()
		eventos, broker = pub, pub.Breaker()
	}

	var dispatcher *worker.Dispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb)
		cola = dispatcher
	}

	svcs := service.NewServicios(cfg, db, rdb, eventos, cola)
	lim := router.NewLimiters()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(router.Deps{Config: cfg, DB: db, Redis: rdb, Broker: broker, Servicios: svcs}, lim),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	if rdb != nil {
		pool := worker.NewPool(rdb, map[string]worker.Processor{
			worker.TipoReporteTurno: worker.NewReporteTurnoWorker(svcs.Turnos, dispatcher,
				cfg.NombreNegocio, cfg.ReporteEmail, cfg.PDFStoragePath, cfg.Location()),
			worker.TipoEmail: worker.NewEmailWorker(infra.NewMailer(cfg)),
		})
		g.Go(func() error { return pool.Run(ctx, cfg.WorkerPoolSize) })
	}

	g.Go(func() error {
		middleware.PurgarPeriodicamente(ctx, lim.Global, lim.Login, lim.Pedidos)
		return nil
	})

	g.Go(func() error {
		log.Info().Msgf("listening on :%d (%s, tz %s)", cfg.Port, cfg.DBDriver, cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
