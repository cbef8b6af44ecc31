// Package audit publishes console activity to Kafka using the shared event
// envelope.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pkgkafka "github.com/chrimztech/unza-counseling-console/pkg/kafka"
)

// Kafka topics written by the console.
var (
	TopicConsentSigned  = pkgkafka.Topic("consent", "signed")
	TopicSessionExpired = pkgkafka.Topic("session", "expired")
)

// Aggregate types.
const (
	AggregateTypeConsentForm = "consent_form"
	AggregateTypeSession     = "session"
)

// SourceConsole identifies events originating from this program.
const SourceConsole = "counselctl"

// ConsentSignedData is the payload for a consent.signed event.
type ConsentSignedData struct {
	ConsentFormID string `json:"consent_form_id"`
	Version       string `json:"version,omitempty"`
	IPAddress     string `json:"ip_address"`
	UserAgent     string `json:"user_agent,omitempty"`
}

// SessionExpiredData is the payload for a session.expired event.
type SessionExpiredData struct {
	Call    string `json:"call,omitempty"`
	Profile string `json:"profile,omitempty"`
}

// Recorder records audit-worthy actions. Failures are reported to the
// caller but must never undo the recorded action.
type Recorder interface {
	ConsentSigned(ctx context.Context, data ConsentSignedData) error
	SessionExpired(ctx context.Context, data SessionExpiredData) error
}

// Publisher is implemented by *pkgkafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes audit events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
	now    func() time.Time
}

var _ Recorder = (*Producer)(nil)

// NewProducer creates a new audit event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
		now:    time.Now,
	}
}

// ConsentSigned publishes a consent.signed event keyed by the form ID.
func (p *Producer) ConsentSigned(ctx context.Context, data ConsentSignedData) error {
	event, err := pkgkafka.NewEvent(ctx, "consent.signed", data.ConsentFormID, AggregateTypeConsentForm, SourceConsole, data, p.now())
	if err != nil {
		return fmt.Errorf("create consent.signed event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicConsentSigned, event); err != nil {
		return fmt.Errorf("publish consent.signed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published consent.signed event",
		slog.String("consent_form_id", data.ConsentFormID),
	)
	return nil
}

// SessionExpired publishes a session.expired event.
func (p *Producer) SessionExpired(ctx context.Context, data SessionExpiredData) error {
	event, err := pkgkafka.NewEvent(ctx, "session.expired", data.Profile, AggregateTypeSession, SourceConsole, data, p.now())
	if err != nil {
		return fmt.Errorf("create session.expired event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicSessionExpired, event); err != nil {
		return fmt.Errorf("publish session.expired event: %w", err)
	}

	p.logger.DebugContext(ctx, "published session.expired event",
		slog.String("call", data.Call),
	)
	return nil
}

// Nop discards every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) ConsentSigned(context.Context, ConsentSignedData) error   { return nil }
func (Nop) SessionExpired(context.Context, SessionExpiredData) error { return nil }
