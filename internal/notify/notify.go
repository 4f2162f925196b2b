// Package notify announces finished builds on a NATS subject so downstream
// consumers (publishing jobs, dashboards) can react without polling.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "github.com/newport-ds/ndsdist/internal/foundation/errors"
	"github.com/newport-ds/ndsdist/internal/version"
)

// Publisher sends one encoded build event.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
	Close()
}

// NATSPublisher publishes on a core NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	timeout time.Duration
}

// NewNATSPublisher connects to url. timeout bounds both the connect and each flush.
func NewNATSPublisher(url, subject string, timeout time.Duration) (*NATSPublisher, error) {
	if subject == "" {
		return nil, ferrors.ConfigError("notify subject is required").Build()
	}
	conn, err := nats.Connect(url,
		nats.Name("ndsdist/"+version.Version),
		nats.Timeout(timeout),
		nats.MaxReconnects(0),
	)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNotify, "failed to connect to NATS").
			WithContext("subject", subject).Warning().Build()
	}
	slog.Debug("NATS publisher connected", "url", conn.ConnectedUrlRedacted(), "subject", subject)
	return &NATSPublisher{conn: conn, subject: subject, timeout: timeout}, nil
}

// Publish sends payload and waits until the server has acknowledged it.
func (p *NATSPublisher) Publish(ctx context.Context, payload []byte) error {
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to publish build event").
			WithContext("subject", p.subject).Warning().Build()
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to flush build event").
			WithContext("subject", p.subject).Warning().Build()
	}
	return nil
}

// Close closes the connection.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}
