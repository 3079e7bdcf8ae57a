package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// ExchangeEventos is the topic exchange kitchen displays and delivery apps bind to.
// Routing keys: venta.cocina.listo, venta.delivery.<estado>, pedido.creado, turno.cerrado.
const ExchangeEventos = "bar_eventos"

// RabbitPublisher publishes order events as persistent JSON messages.
// Every publish goes through a circuit breaker. A closed connection or channel
// is redialed on the next publish.
type RabbitPublisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
	cb   *CircuitBreaker
}

func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	p := &RabbitPublisher{
		url: url,
		cb:  NewCircuitBreaker(DefaultCBConfig("rabbitmq")),
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conectar(); err != nil {
		return nil, err
	}
	return p, nil
}

// conectar dials the broker and declares the exchange. Caller holds mu.
func (p *RabbitPublisher) conectar() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ExchangeEventos, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}
	p.conn, p.ch = conn, ch
	go vigilarCierre(ch.NotifyClose(make(chan *amqp.Error, 1)))
	return nil
}

func vigilarCierre(cerrado <-chan *amqp.Error) {
	if e := <-cerrado; e != nil {
		log.Error().Int("code", e.Code).Str("reason", e.Reason).Msg("rabbitmq: canal cerrado, se reconecta en el próximo envío")
	}
}

// canalVivo reports whether the current channel can publish. Caller holds mu.
func (p *RabbitPublisher) canalVivo() bool {
	return p.conn != nil && !p.conn.IsClosed() && p.ch != nil && !p.ch.IsClosed()
}

// reconectar drops whatever is left of the old connection and dials again.
// Caller holds mu.
func (p *RabbitPublisher) reconectar() error {
	p.cerrar()
	if err := p.conectar(); err != nil {
		return err
	}
	log.Info().Msg("rabbitmq: reconectado")
	return nil
}

// Publicar sends payload under the given routing key.
func (p *RabbitPublisher) Publicar(ctx context.Context, clave string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.cb.Execute(func() error {
		p.mu.Lock()
		defer p.mu.Unlock()
		if !p.canalVivo() {
			if err := p.reconectar(); err != nil {
				return err
			}
		}
		pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return p.ch.PublishWithContext(pubCtx, ExchangeEventos, clave, false, false, amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			ContentType:  "application/json",
			Body:         body,
		})
	})
}

// Breaker exposes the breaker for the health endpoint.
func (p *RabbitPublisher) Breaker() *CircuitBreaker { return p.cb }

// cerrar releases the connection. Caller holds mu.
func (p *RabbitPublisher) cerrar() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && err != amqp.ErrClosed {
			log.Warn().Err(err).Msg("rabbitmq: close")
		}
		p.conn = nil
	}
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cerrar()
}
