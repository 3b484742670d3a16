package queue

import (
    "context"
    "errors"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    gobreaker "github.com/sony/gobreaker/v2"

    "github.com/iliyamo/movie-catalog/internal/catalog"
    "github.com/iliyamo/movie-catalog/internal/logging"
    "github.com/iliyamo/movie-catalog/internal/metrics"
)

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
    QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
    PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
    Close() error
}

// dialFunc opens a channel and returns it with a func closing the
// underlying connection.
type dialFunc func(url string) (channel, func() error, error)

func dialAMQP(url string) (channel, func() error, error) {
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, nil, err
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, nil, err
    }
    return ch, conn.Close, nil
}

// PublisherConfig tunes the circuit breaker around the broker.
type PublisherConfig struct {
    URL              string
    Queue            string        // default CatalogQueueName
    FailureThreshold uint32        // consecutive failures that open the breaker; default 3
    OpenTimeout      time.Duration // time the breaker stays open; default 30s
    PublishTimeout   time.Duration // per-publish deadline; default 5s
}

// Publisher implements catalog.Publisher over RabbitMQ.  Each publish
// dials the broker, declares the durable queue and sends one persistent
// message.  A circuit breaker stops dialing a broker that keeps failing so
// writes are not slowed down by connection timeouts.
type Publisher struct {
    cfg     PublisherConfig
    dial    dialFunc
    breaker *gobreaker.CircuitBreaker[struct{}]
}

var _ catalog.Publisher = (*Publisher)(nil)

// NewPublisher constructs a Publisher.
func NewPublisher(cfg PublisherConfig) *Publisher {
    return newPublisher(cfg, dialAMQP)
}

func newPublisher(cfg PublisherConfig, dial dialFunc) *Publisher {
    if cfg.Queue == "" {
        cfg.Queue = CatalogQueueName
    }
    if cfg.FailureThreshold == 0 {
        cfg.FailureThreshold = 3
    }
    if cfg.OpenTimeout <= 0 {
        cfg.OpenTimeout = 30 * time.Second
    }
    if cfg.PublishTimeout <= 0 {
        cfg.PublishTimeout = 5 * time.Second
    }
    log := logging.Component("queue")
    threshold := cfg.FailureThreshold
    settings := gobreaker.Settings{
        Name:        "amqp-publisher",
        MaxRequests: 1,
        Timeout:     cfg.OpenTimeout,
        ReadyToTrip: func(counts gobreaker.Counts) bool {
            return counts.ConsecutiveFailures >= threshold
        },
        OnStateChange: func(name string, from, to gobreaker.State) {
            log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
        },
    }
    return &Publisher{cfg: cfg, dial: dial, breaker: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

// Publish sends ev to the catalog queue.  While the breaker is open it
// fails fast with gobreaker.ErrOpenState.
func (p *Publisher) Publish(ctx context.Context, ev catalog.Event) error {
    body, err := NewCatalogEvent(ev).Marshal()
    if err != nil {
        metrics.EventsPublished.WithLabelValues(ev.Type, "error").Inc()
        return fmt.Errorf("marshal event: %w", err)
    }
    _, err = p.breaker.Execute(func() (struct{}, error) {
        return struct{}{}, p.send(ctx, body)
    })
    switch {
    case err == nil:
        metrics.EventsPublished.WithLabelValues(ev.Type, "ok").Inc()
    case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
        metrics.EventsPublished.WithLabelValues(ev.Type, "rejected").Inc()
    default:
        metrics.EventsPublished.WithLabelValues(ev.Type, "error").Inc()
    }
    return err
}

func (p *Publisher) send(ctx context.Context, body []byte) error {
    ch, closeConn, err := p.dial(p.cfg.URL)
    if err != nil {
        return fmt.Errorf("dial broker: %w", err)
    }
    defer func() { _ = closeConn() }()
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    ctx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
    defer cancel()
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, pub); err != nil {
        return fmt.Errorf("publish: %w", err)
    }
    return nil
}

// State reports the breaker state ("closed", "half-open", "open").
func (p *Publisher) State() string {
    return p.breaker.State().String()
}
