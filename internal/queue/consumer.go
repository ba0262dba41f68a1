package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

const sessionLogName = "sessions.log"

var logger = log.New("session-consumer")

// Consumer appends every session message to <dir>/sessions.log, one line
// per message.
type Consumer struct {
	url string
	dir string

	mu sync.Mutex // serializes writes to the log file
}

// NewConsumer returns a consumer for the broker at url writing under dir.
func NewConsumer(url, dir string) *Consumer {
	return &Consumer{url: url, dir: dir}
}

// Run connects to the broker, declares both session queues and consumes
// until ctx is cancelled. Dial and channel failures are retried with
// exponential backoff capped at 30 s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			logger.Warnf("dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warnf("consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warnf("set QoS: %v", err)
	}

	type source struct {
		queue string
		msgs  <-chan amqp.Delivery
	}
	var sources []source
	for _, q := range []string{ReminderQueue, EndedQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.ConsumeWithContext(ctx, q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		sources = append(sources, source{queue: q, msgs: msgs})
	}

	reminders, ended := sources[0], sources[1]
	for {
		var (
			d     amqp.Delivery
			ok    bool
			queue string
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-reminders.msgs:
			queue = reminders.queue
		case d, ok = <-ended.msgs:
			queue = ended.queue
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := c.HandleMessage(queue, d.Body); err != nil {
			logger.Errorf("handle %s message: %v", queue, err)
			_ = d.Nack(false, false) // reject without requeue to avoid a hot loop
			continue
		}
		_ = d.Ack(false)
	}
}

// HandleMessage decodes one message from queue and appends it to the log.
func (c *Consumer) HandleMessage(queue string, body []byte) error {
	var line string
	switch queue {
	case ReminderQueue:
		var ev SessionReminderEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line = fmt.Sprintf("[%s] Session reminder | title=%q | body=%q\n", ev.DueAt, ev.Title, ev.Body)
	case EndedQueue:
		var ev SessionEndedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line = fmt.Sprintf("[%s] Session ended | session_id=%s | venue=%q | holder=%q | reason=%s | started_at=%s | duration=%s | price=%s\n",
			ev.EndedAt, ev.SessionID, ev.VenueName, ev.HolderName, ev.Reason, ev.StartedAt,
			time.Duration(ev.DurationSeconds)*time.Second, ev.Price)
	default:
		return fmt.Errorf("unknown queue %q", queue)
	}
	return c.appendLine(line)
}

func (c *Consumer) appendLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.dir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.dir, sessionLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

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
