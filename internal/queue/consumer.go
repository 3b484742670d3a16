package queue

import (
    "context"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/movie-catalog/internal/logging"
    "github.com/iliyamo/movie-catalog/internal/metrics"
)

// DefaultAuditLog is where the consumer appends events.
var DefaultAuditLog = filepath.Join("logs", "catalog.log")

// AuditConsumer reads the catalog queue and appends one line per event to
// a log file.
type AuditConsumer struct {
    URL     string
    Queue   string // default CatalogQueueName
    LogPath string // default DefaultAuditLog

    mu sync.Mutex // serializes file appends
}

// Run connects to RabbitMQ, declares the durable queue and consumes until
// ctx is cancelled.  Lost connections are redialed with exponential backoff
// capped at 30s.  Messages that cannot be decoded or written are rejected
// without requeue so a bad message never blocks the queue.
func (a *AuditConsumer) Run(ctx context.Context) error {
    if a.Queue == "" {
        a.Queue = CatalogQueueName
    }
    if a.LogPath == "" {
        a.LogPath = DefaultAuditLog
    }
    log := logging.Component("audit-consumer")

    backoff := time.Second
    for {
        conn, err := amqp.Dial(a.URL)
        if err != nil {
            log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = a.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn().Err(err).Msg("consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (a *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()
    log := logging.Component("audit-consumer")

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn().Err(err).Msg("set QoS failed")
    }
    if _, err := ch.QueueDeclare(a.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(a.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }
    log.Info().Str("queue", a.Queue).Msg("consumer started")

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := a.handle(d.Body); err != nil {
                log.Error().Err(err).Msg("handle message failed")
                metrics.EventsConsumed.WithLabelValues("nack").Inc()
                _ = d.Nack(false, false)
                continue
            }
            metrics.EventsConsumed.WithLabelValues("ack").Inc()
            _ = d.Ack(false)
        }
    }
}

// handle appends the decoded event to the audit log.
func (a *AuditConsumer) handle(body []byte) error {
    ev, err := UnmarshalCatalogEvent(body)
    if err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" {
        return errors.New("event without type")
    }

    a.mu.Lock()
    defer a.mu.Unlock()
    if err := os.MkdirAll(filepath.Dir(a.LogPath), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(a.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(formatAuditLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func formatAuditLine(ev CatalogEvent) string {
    related := "[]"
    if len(ev.RelatedIDs) > 0 {
        ids := make([]string, len(ev.RelatedIDs))
        for i, id := range ev.RelatedIDs {
            ids[i] = fmt.Sprint(id)
        }
        related = "[" + strings.Join(ids, ",") + "]"
    }
    return fmt.Sprintf("[%s] %s | %s_id=%d | related=%s\n", ev.OccurredAt, ev.Type, ev.Entity, ev.EntityID, related)
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
