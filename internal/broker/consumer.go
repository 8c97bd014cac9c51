package broker

import (
	"errors"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
}

// NewConsumer declara a fila e começa a consumir com auto-ack.
func NewConsumer(uri, queue, tag string, prefetch int, log *slog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	fail := func(err error) (*Consumer, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fail(err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fail(err)
	}

	deliveries, err := ch.Consume(
		queue,
		tag,
		true, false, false, false, nil,
	)
	if err != nil {
		return fail(err)
	}
	if log != nil {
		log.Info("rabbit_consumer_started", "queue", queue, "prefetch", prefetch)
	}
	return &Consumer{conn: conn, ch: ch, deliveries: deliveries}, nil
}

func (c *Consumer) Deliveries() <-chan amqp.Delivery { return c.deliveries }

func (c *Consumer) Close() error {
	return errors.Join(c.ch.Close(), c.conn.Close())
}
