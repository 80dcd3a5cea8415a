// Package amqp forwards ledger events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"fmt"
	"time"

	"github.com/holdingpro/holding/internal/event_bus"
	"github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// channel is the part of *amqp091.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type Publisher struct {
	conn       *amqp091.Connection
	channel    channel
	exchange   string
	routingKey string
	now        func() time.Time
}

// Dial connects to the broker at url and declares a durable topic exchange.
func Dial(url, exchange, routingKey string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newPublisher(ch, exchange, routingKey)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange, routingKey string) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
	}, nil
}

// Subscribe forwards the ledger events of bus to the exchange.
func (p *Publisher) Subscribe(bus *event_bus.EventBus) (unsubscribe func()) {
	unsubAppended := event_bus.SubscribeTyped(bus, event_bus.LedgerTransactionsAppended,
		func(e event_bus.EventT[event_bus.TransactionsAppended]) error {
			return p.publish(e.Context(), NewAppendedMessage(e.Data, p.now()))
		})
	unsubReset := event_bus.SubscribeTyped(bus, event_bus.LedgerReset,
		func(e event_bus.EventT[event_bus.LedgerCleared]) error {
			return p.publish(e.Context(), NewResetMessage(e.Data, p.now()))
		})
	return func() {
		unsubAppended()
		unsubReset()
	}
}

func (p *Publisher) publish(ctx context.Context, msg *LedgerMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey+"."+msg.Type,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	log.Debugf("Published %s of session %s to %s", msg.Type, msg.SessionId, p.exchange)
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
