package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	reconnectDelay = 5 * time.Second
	publishTimeout = 5 * time.Second
)

// envelope is the wire shape consumed by the notification service.
type envelope struct {
	RecipientID string  `json:"recipient_id"`
	Message     Message `json:"message"`
}

// AMQPFanout publishes notifications to a durable topic exchange, one
// message per recipient, routed by message type.
type AMQPFanout struct {
	url      string
	exchange string

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	done    chan struct{}
}

func NewAMQPFanout(url, exchange string) (*AMQPFanout, error) {
	f := &AMQPFanout{
		url:      url,
		exchange: exchange,
		done:     make(chan struct{}),
	}

	if err := f.connect(); err != nil {
		return nil, err
	}

	go f.handleReconnect()
	return f, nil
}

func (f *AMQPFanout) connect() error {
	conn, err := amqp.Dial(f.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		f.exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	f.mu.Lock()
	f.conn = conn
	f.channel = channel
	f.mu.Unlock()
	return nil
}

func (f *AMQPFanout) handleReconnect() {
	for {
		f.mu.RLock()
		conn := f.conn
		f.mu.RUnlock()

		closed := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-f.done:
			return
		case err := <-closed:
			if err != nil {
				slog.Error("rabbitmq connection lost", "error", err)
			}
		}

		for {
			select {
			case <-f.done:
				return
			case <-time.After(reconnectDelay):
			}
			if err := f.connect(); err != nil {
				slog.Error("rabbitmq reconnect failed", "error", err)
				continue
			}
			slog.Info("rabbitmq reconnected")
			break
		}
	}
}

func (f *AMQPFanout) Notify(ctx context.Context, recipientIDs []uuid.UUID, msg Message) (int, error) {
	f.mu.RLock()
	channel := f.channel
	f.mu.RUnlock()

	if channel == nil {
		return 0, fmt.Errorf("channel not available")
	}

	routingKey := "moderation." + msg.Type
	delivered := 0
	for _, recipient := range recipientIDs {
		body, err := json.Marshal(envelope{RecipientID: recipient.String(), Message: msg})
		if err != nil {
			return delivered, fmt.Errorf("marshal notification: %w", err)
		}

		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err = channel.PublishWithContext(
			pubCtx,
			f.exchange,
			routingKey,
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    uuid.NewString(),
				Body:         body,
				Timestamp:    time.Now(),
			},
		)
		cancel()
		if err != nil {
			return delivered, fmt.Errorf("publish notification: %w", err)
		}
		delivered++
	}
	return delivered, nil
}

func (f *AMQPFanout) Close() {
	close(f.done)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.channel != nil {
		f.channel.Close()
	}
	if f.conn != nil {
		f.conn.Close()
	}
}
