package messaging

import (
	"context"
	"errors"
	"fmt"
)

// ErrTerminal marks a command that redelivery cannot fix
var ErrTerminal = errors.New("terminal command failure")

// Terminal wraps err so the subscriber drops the command instead of redelivering it
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTerminal, err)
}

// Command is an invocation submitted through the message broker. Data is the instruction
// envelope; Accounts and Signers are base58 addresses.
type Command struct {
	ID       string   `json:"id"`
	Data     []byte   `json:"data"`
	Accounts []string `json:"accounts"`
	Signers  []string `json:"signers"`
}

// CommandHandler processes one command. A nil error acknowledges the command, an error wrapped
// with Terminal drops it and any other error asks for redelivery.
type CommandHandler func(ctx context.Context, cmd *Command) error

// Subscriber consumes invocation commands
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// Subscribe consumes commands until ctx is canceled
	Subscribe(ctx context.Context, handler CommandHandler) error
	// Close closes the connection and cleans up resources
	Close()
}
