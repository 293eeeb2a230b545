package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/nats-io/nats.go"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/conf"
)

const (
	subjectPrefix     = "moviehub."
	publishMaxRetries = 2
)

type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

type natsPublisher struct {
	conn       natsConn
	maxRetries int
	log        *log.Helper
}

// NewEventPublisher connects to NATS. Without a configured URL, or when the
// server is unreachable, events are dropped.
func NewEventPublisher(c *conf.Data, logger log.Logger) (biz.EventPublisher, func(), error) {
	l := log.NewHelper(logger)
	if c.Nats == nil || c.Nats.Url == "" {
		l.Info("nats not configured, domain events disabled")
		return noopPublisher{}, func() {}, nil
	}

	nc, err := nats.Connect(c.Nats.Url,
		nats.Name("moviehub"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		l.Warnf("failed to connect to nats: %v", err)
		return noopPublisher{}, func() {}, nil
	}
	l.Info("nats connected successfully")

	p := newNatsPublisher(nc, logger)
	cleanup := func() {
		if err := nc.Drain(); err != nil {
			l.Errorf("failed to drain nats: %v", err)
		}
	}
	return p, cleanup, nil
}

func newNatsPublisher(conn natsConn, logger log.Logger) *natsPublisher {
	return &natsPublisher{
		conn:       conn,
		maxRetries: publishMaxRetries,
		log:        log.NewHelper(logger),
	}
}

func (p *natsPublisher) Publish(ctx context.Context, event *biz.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	subject := subjectPrefix + event.Type

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			p.log.Infof("retrying publish on '%s', attempt %d/%d", subject, attempt, p.maxRetries)
		}

		if lastErr = p.conn.Publish(subject, payload); lastErr == nil {
			p.log.Debugf("published event on subject '%s'", subject)
			return nil
		}
	}

	return fmt.Errorf("failed to publish on %s after %d attempts: %w", subject, p.maxRetries+1, lastErr)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, *biz.Event) error { return nil }
