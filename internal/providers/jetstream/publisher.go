package jetstream

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/Plant-GO/biodex/internal/adapter"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/messaging"
)

type publisher struct {
	nc   adapter.NatsConn
	js   adapter.JetStream
	json adapter.JSON
}

// NewPublisher connects to NATS and makes sure the event stream exists
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	nc, js, err := connect(cfg, natsJS)
	if err != nil {
		return nil, err
	}

	if err := js.EnsureStream(ctx, cfg.EventStream, eventSubjects()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure event stream %s: %w", cfg.EventStream, err)
	}

	return &publisher{
		nc:   nc,
		js:   js,
		json: jsonAdapter,
	}, nil
}

// PublishCardIssued publishes a committed card issuance, deduplicated by invocation id
func (p *publisher) PublishCardIssued(ctx context.Context, event *domain.CardIssuedEvent) error {
	subject := CardIssuedSubject(event)
	logger.DebugCtx(ctx, "Publishing card issued event", zap.String("subject", subject))
	return p.publish(ctx, subject, event.InvocationID, event)
}

// PublishPoolCreated publishes a committed asset pool creation
func (p *publisher) PublishPoolCreated(ctx context.Context, event *domain.PoolCreatedEvent) error {
	logger.DebugCtx(ctx, "Publishing pool created event", zap.String("pool", event.Pool))
	return p.publish(ctx, POOL_CREATED_SUBJECT, event.InvocationID, event)
}

func (p *publisher) publish(ctx context.Context, subject, msgID string, event interface{}) error {
	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var opts []jetstream.PublishOpt
	if msgID != "" {
		opts = append(opts, jetstream.WithMsgID(msgID))
	}

	if _, err := p.js.Publish(ctx, subject, data, opts...); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
