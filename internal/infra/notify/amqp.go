package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	connectAttempts   = 10
	initialRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second
	publishTimeout    = 5 * time.Second
)

var (
	ErrChannelUnavailable = errs.New("amqp channel not available")
	ErrBrokerClosed       = errs.New("amqp broker closed")
)

// Broker owns the AMQP connection and re-dials when the server closes it.
type Broker struct {
	url      string
	exchange string
	logger   *slog.Logger

	mu     sync.RWMutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
	done   chan struct{}
}

func NewBroker(ctx context.Context, cfg config.MQConfig, logger *slog.Logger) (*Broker, error) {
	b := newBroker(cfg.URL, cfg.Exchange, logger)
	if err := b.dialWithRetry(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func newBroker(url, exchange string, logger *slog.Logger) *Broker {
	return &Broker{url: url, exchange: exchange, logger: logger, done: make(chan struct{})}
}

func (b *Broker) dialWithRetry(ctx context.Context) error {
	delay := initialRetryDelay
	for attempt := 1; ; attempt++ {
		err := b.connect()
		if err == nil {
			b.logger.Info("rabbitmq connected", "attempt", attempt, "exchange", b.exchange)
			return nil
		}
		if errs.Is(err, ErrBrokerClosed) {
			return err
		}
		b.logger.Warn("rabbitmq connection attempt failed",
			"attempt", attempt,
			"max_attempts", connectAttempts,
			"error", err.Error())
		if attempt == connectAttempts {
			return errs.Wrapf(err, "failed to connect after %d attempts", connectAttempts)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.done:
			return ErrBrokerClosed
		case <-time.After(delay):
		}
		delay = min(time.Duration(float64(delay)*1.5), maxRetryDelay)
	}
}

func (b *Broker) connect() error {
	if b.isClosed() {
		return ErrBrokerClosed
	}
	conn, err := amqp.Dial(b.url)
	if err != nil {
		return errs.Wrap(err, "dial rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errs.Wrap(err, "open channel")
	}

	if err := ch.ExchangeDeclare(b.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return errs.Wrap(err, "declare exchange")
	}

	if err := b.install(conn, ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	go b.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))
	return nil
}

// install stores a fresh connection unless Close already ran; the caller
// owns conn and ch when it returns an error.
func (b *Broker) install(conn *amqp.Connection, ch *amqp.Channel) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBrokerClosed
	}
	b.conn = conn
	b.ch = ch
	return nil
}

func (b *Broker) isClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// watch re-dials after an unexpected close. A nil error means Close was
// called locally.
func (b *Broker) watch(closed <-chan *amqp.Error) {
	amqpErr, ok := <-closed
	if !ok || amqpErr == nil {
		return
	}

	b.mu.Lock()
	b.ch = nil
	stopped := b.closed
	b.mu.Unlock()
	if stopped {
		return
	}

	b.logger.Warn("rabbitmq connection lost", "error", amqpErr.Error())
	if err := b.dialWithRetry(context.Background()); err != nil && !errs.Is(err, ErrBrokerClosed) {
		b.logger.Error("rabbitmq reconnect failed", "error", err.Error())
	}
}

func (b *Broker) Publish(ctx context.Context, routingKey string, body []byte) error {
	b.mu.RLock()
	ch := b.ch
	b.mu.RUnlock()

	if ch == nil {
		return ErrChannelUnavailable
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return ch.PublishWithContext(publishCtx, b.exchange, routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.done)

	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
	b.logger.Info("rabbitmq connection closed")
}

// Publisher is the part of Broker the sink needs.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

type amqpMessage struct {
	UserID uuid.UUID    `json:"userId"`
	Event  shared.Event `json:"event"`
}

// AMQPSink publishes events to the topic exchange with the event type as
// routing key, e.g. "booking.approved".
type AMQPSink struct {
	publisher Publisher
	logger    *slog.Logger
}

func NewAMQPSink(publisher Publisher, logger *slog.Logger) *AMQPSink {
	return &AMQPSink{publisher: publisher, logger: logger}
}

func (s *AMQPSink) Notify(ctx context.Context, userID uuid.UUID, event shared.Event) {
	body, err := json.Marshal(amqpMessage{UserID: userID, Event: event})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode event", "type", string(event.Type), "error", err.Error())
		return
	}

	// Detached from the request: a cancelled HTTP context must not drop the event.
	if err := s.publisher.Publish(context.WithoutCancel(ctx), string(event.Type), body); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			"type", string(event.Type),
			"user_id", userID.String(),
			"error", err.Error())
	}
}
