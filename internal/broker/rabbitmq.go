package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
)

var ErrNacked = errors.New("broker: message not confirmed")

type Publisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   *slog.Logger
}

func NewPublisher(uri, queue string, log *slog.Logger) (*Publisher, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Garante que a fila exista (durável)
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	// publisher confirms: Publish só retorna depois do ack do broker
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, queue: queue, log: log.With("cmp", "broker")}, nil
}

// Publish envelopa o evento e espera a confirmação do broker.
func (p *Publisher) Publish(ctx context.Context, e models.DomainEvent) error {
	env, err := NewEnvelope(ctx, e)
	if err != nil {
		return err
	}
	body, err := env.Encode()
	if err != nil {
		return err
	}
	headers := amqp.Table{
		"event_type":   e.EventType(),
		"aggregate_id": strconv.FormatInt(e.AggregateID(), 10),
	}
	if err := p.PublishRaw(ctx, body, env.MessageID, env.CorrelationID, headers); err != nil {
		return err
	}
	p.log.Debug("event_published", "event_type", e.EventType(), "message_id", env.MessageID)
	return nil
}

func (p *Publisher) PublishRaw(ctx context.Context, body []byte, messageID, correlationID string, headers amqp.Table) error {
	if ctx == nil {
		c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ctx = c
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	dc, err := p.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		"",      // default exchange
		p.queue, // routing key = nome da fila
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			Timestamp:     time.Now(),
			MessageId:     messageID,
			CorrelationId: correlationID,
			Body:          body,
			Headers:       headers,
		},
	)
	if err != nil {
		return err
	}
	ok, err := dc.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNacked
	}
	return nil
}

func (p *Publisher) Close() error {
	var errCh, errConn error
	if p.ch != nil {
		errCh = p.ch.Close()
	}
	if p.conn != nil {
		errConn = p.conn.Close()
	}

	return errors.Join(errCh, errConn)
}

// LogPublisher só registra o envelope no log; usado quando não há RabbitMQ configurado.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &LogPublisher{log: log.With("cmp", "broker.log")}
}

func (p *LogPublisher) Publish(ctx context.Context, e models.DomainEvent) error {
	env, err := NewEnvelope(ctx, e)
	if err != nil {
		return err
	}
	p.log.Info("event_published",
		"event_type", env.EventType,
		"message_id", env.MessageID,
		"correlation_id", env.CorrelationID,
		"aggregate_id", e.AggregateID(),
		"payload", string(env.Payload),
	)
	return nil
}
