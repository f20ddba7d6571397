package jetstream

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/Plant-GO/biodex/internal/adapter"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/messaging"
)

type subscriber struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	json   adapter.JSON
	config Config
	wg     sync.WaitGroup
}

// NewSubscriber connects to NATS for consuming invocation commands
func NewSubscriber(cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Subscriber, error) {
	nc, js, err := connect(cfg, natsJS)
	if err != nil {
		return nil, err
	}

	return &subscriber{
		nc:     nc,
		js:     js,
		json:   jsonAdapter,
		config: cfg,
	}, nil
}

// ConsumerConfig returns the durable consumer configuration for the command stream
func ConsumerConfig(cfg Config) jetstream.ConsumerConfig {
	return jetstream.ConsumerConfig{
		Durable:       cfg.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       cfg.AckWait,
		MaxDeliver:    cfg.MaxDeliver,
		FilterSubject: COMMAND_SUBJECT,
	}
}

// Subscribe consumes commands until ctx is canceled, then waits for in-flight handlers
func (s *subscriber) Subscribe(ctx context.Context, handler messaging.CommandHandler) error {
	logger.InfoCtx(ctx, "Starting command subscriber",
		zap.String("stream", s.config.CommandStream),
		zap.String("consumer", s.config.ConsumerName))

	if err := s.js.EnsureStream(ctx, s.config.CommandStream, []string{COMMAND_SUBJECT}); err != nil {
		return fmt.Errorf("failed to ensure command stream %s: %w", s.config.CommandStream, err)
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, s.config.CommandStream, ConsumerConfig(s.config))
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	info, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved",
		zap.String("consumer", info.Name),
		zap.Uint64("pending", info.NumPending))

	msgChan := make(chan adapter.Message, 100)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer s.wg.Wait()
	defer sub.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down command subscriber")
			return ctx.Err()
		case msg := <-msgChan:
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.handleMessage(ctx, msg, handler)
			}()
		}
	}
}

// handleMessage decodes one command and settles the message according to the handler result
func (s *subscriber) handleMessage(ctx context.Context, msg adapter.Message, handler messaging.CommandHandler) {
	var cmd messaging.Command
	if err := s.json.Unmarshal(msg.Data(), &cmd); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal command"), zap.String("subject", msg.Subject()))
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	var delivered uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		delivered = metadata.NumDelivered
		// redeliveries must reuse the same invocation id
		if cmd.ID == "" {
			cmd.ID = fmt.Sprintf("%s-%d", metadata.Stream, metadata.Sequence.Stream)
		}
	}

	logger.InfoCtx(ctx, "Received command",
		zap.String("invocation_id", cmd.ID),
		zap.Int("accounts", len(cmd.Accounts)),
		zap.Uint64("deliveryCount", delivered))

	err := handler(ctx, &cmd)
	switch {
	case err == nil:
		if err := msg.Ack(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
		}
	case errors.Is(err, messaging.ErrTerminal):
		logger.WarnCtx(ctx, "Dropping command", zap.String("invocation_id", cmd.ID), zap.Error(err))
		if err := msg.Term(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
		}
	default:
		logger.ErrorCtx(ctx, err, zap.String("message", "Command failed, requesting redelivery"), zap.String("invocation_id", cmd.ID))
		if err := msg.Nak(); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("message", "Failed to NAK message"))
		}
	}
}

// Close drains the NATS connection
func (s *subscriber) Close() {
	if s.nc == nil {
		return
	}

	if err := s.nc.Drain(); err != nil {
		logger.Error(err, zap.String("message", "Failed to drain NATS connection"))
		s.nc.Close()
	}
}
