package publisher

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/fekuna/omnipos-storefront/internal/cart"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher sends cart events to a durable topic exchange named
// <prefix>_cart; the routing key is the event type.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

func NewAMQPPublisher(conn *amqp.Connection, prefix string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{conn: conn, exchange: fmt.Sprintf("%s_cart", prefix)}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	if err := DefineTopic(ch, p.exchange); err != nil {
		return nil, err
	}
	return p, nil
}

// DefineTopic declares the exchange and a queue of the same name bound to
// every routing key.
func DefineTopic(ch *amqp.Channel, name string) error {
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return err
	}
	return ch.QueueBind(name, "#", name, false, nil)
}

func (p *AMQPPublisher) Publish(ctx context.Context, event cart.Event) error {
	body, err := sonic.Marshal(event)
	if err != nil {
		return err
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.PublishWithContext(ctx,
		p.exchange,
		event.EventType,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   event.EventID,
			Body:        body,
		},
	)
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, cart.Event) error { return nil }
