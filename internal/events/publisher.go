package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Event subjects
const (
	SubjectSessionValidated      = "dashboard.session.validated"
	SubjectSessionRejected       = "dashboard.session.rejected"
	SubjectWebsiteAdded          = "dashboard.website.added"
	SubjectWebsiteRemoved        = "dashboard.website.removed"
	SubjectSubscriptionCancelled = "dashboard.subscription.cancelled"
)

// AuditEvent is the envelope for every published audit record. Token
// strings and secrets never appear in events.
type AuditEvent struct {
	EventID    string                 `json:"event_id"`
	EventType  string                 `json:"event_type"`
	CustomerID string                 `json:"customer_id,omitempty"`
	IPAddress  string                 `json:"ip_address,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// Publisher emits audit events to NATS JetStream. It is nil-safe: a nil
// publisher (NATS_URL unset, or connect failure at startup) turns every
// publish into a no-op so the request path never depends on the broker.
type Publisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the audit stream exists.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logrus.New()
	}

	opts := []nats.Option{
		nats.Name("dashboard-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:        "DASHBOARD_EVENTS",
		Description: "Audit events from the compliance dashboard backend",
		Subjects:    []string{"dashboard.>"},
		Storage:     nats.FileStorage,
		Retention:   nats.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Discard:     nats.DiscardOld,
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		logger.WithError(err).Warn("Could not create audit stream (may already exist)")
	}

	return &Publisher{
		conn:   conn,
		js:     js,
		logger: logger.WithField("component", "events.publisher"),
	}, nil
}

// Publish emits one audit event. Failures are logged and swallowed; audit
// delivery is best-effort by contract.
func (p *Publisher) Publish(ctx context.Context, subject, customerID, ipAddress string, metadata map[string]interface{}) {
	if p == nil || p.js == nil {
		return
	}

	event := AuditEvent{
		EventID:    uuid.New().String(),
		EventType:  subject,
		CustomerID: customerID,
		IPAddress:  ipAddress,
		Metadata:   metadata,
		Timestamp:  time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Error("Failed to marshal audit event")
		return
	}

	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish audit event")
		return
	}
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
