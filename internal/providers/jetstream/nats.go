package jetstream

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Plant-GO/biodex/internal/adapter"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/logger"
)

const (
	// CARD_SUBJECT_PREFIX prefixes card issued subjects: biodex.cards.<path>.<tier>
	CARD_SUBJECT_PREFIX = "biodex.cards"
	// POOL_CREATED_SUBJECT is the subject of pool created events
	POOL_CREATED_SUBJECT = "biodex.pools.created"
	// COMMAND_SUBJECT is the subject clients submit invocation commands on
	COMMAND_SUBJECT = "biodex.commands.invoke"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	EventStream    string
	CommandStream  string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWait        time.Duration
	MaxDeliver     int
}

// CardIssuedSubject returns the subject a card issued event is published on
func CardIssuedSubject(event *domain.CardIssuedEvent) string {
	return fmt.Sprintf("%s.%s.%s", CARD_SUBJECT_PREFIX, event.Path, event.Rarity)
}

func eventSubjects() []string {
	return []string{CARD_SUBJECT_PREFIX + ".>", "biodex.pools.>"}
}

func connect(cfg Config, natsJS adapter.NatsJetStream) (adapter.NatsConn, adapter.JetStream, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}
	return nc, js, nil
}
