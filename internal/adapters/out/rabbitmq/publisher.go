// Package rabbitmq publishes load lifecycle events to a topic exchange. The
// routing key is the event name, e.g. "load.assigned".
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"loadboard/internal/core/domain/model/load"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "loadboard.events"

var ErrPublisherClosed = errors.New("rabbitmq publisher is closed")

// Message is the JSON body of every published event.
type Message struct {
	EventID       string    `json:"event_id"`
	Event         string    `json:"event"`
	LoadID        int64     `json:"load_id"`
	Reference     string    `json:"reference"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	DriverID      *int64    `json:"driver_id,omitempty"`
	Lat           *float64  `json:"lat,omitempty"`
	Lng           *float64  `json:"lng,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewMessage(event load.Event) Message {
	msg := Message{
		EventID:       event.ID.String(),
		Event:         string(event.Name),
		LoadID:        event.LoadID.Int64(),
		Reference:     event.Reference(),
		Status:        event.Status.String(),
		PaymentStatus: event.PaymentStatus.String(),
		OccurredAt:    event.OccurredAt,
	}
	if event.DriverID != nil {
		id := event.DriverID.Int64()
		msg.DriverID = &id
	}
	if event.Position != nil {
		lat, lng := event.Position.Lat(), event.Position.Lng()
		msg.Lat = &lat
		msg.Lng = &lng
	}
	return msg
}

// Publisher implements ports.EventPublisher.
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher dials the broker and declares a durable topic exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return p, nil
}

// Publish sends every event as a persistent JSON message. A dropped connection
// is re-dialed once before giving up.
func (p *Publisher) Publish(ctx context.Context, events ...load.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.url == "" {
		return ErrPublisherClosed
	}
	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		if err := p.connect(); err != nil {
			return fmt.Errorf("reconnect to rabbitmq: %w", err)
		}
	}

	var errs error
	for _, event := range events {
		body, err := json.Marshal(NewMessage(event))
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		err = p.ch.PublishWithContext(ctx, p.exchange, string(event.Name), false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.OccurredAt,
			Type:         string(event.Name),
			Body:         body,
		})
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("publish %s for %s: %w", event.Name, event.Reference(), err))
		}
	}
	return errs
}

// Close shuts the channel and the connection. Publish fails afterwards.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.url = ""

	var err error
	if p.ch != nil && !p.ch.IsClosed() {
		err = errors.Join(err, p.ch.Close())
	}
	if p.conn != nil && !p.conn.IsClosed() {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}

// connect must be called with mu held.
func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err = ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch
	return nil
}
