package messaging

import (
	"context"

	"github.com/Plant-GO/biodex/internal/domain"
)

// Publisher defines the interface for publishing issuance events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishCardIssued publishes a committed card issuance
	PublishCardIssued(ctx context.Context, event *domain.CardIssuedEvent) error
	// PublishPoolCreated publishes a committed asset pool creation
	PublishPoolCreated(ctx context.Context, event *domain.PoolCreatedEvent) error
	// Close closes the connection
	Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishCardIssued(context.Context, *domain.CardIssuedEvent) error {
	return nil
}

func (nopPublisher) PublishPoolCreated(context.Context, *domain.PoolCreatedEvent) error {
	return nil
}

func (nopPublisher) Close() {}
