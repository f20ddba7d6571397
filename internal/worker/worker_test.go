package worker_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/issuance"
	"github.com/Plant-GO/biodex/internal/messaging"
	mockspkg "github.com/Plant-GO/biodex/internal/mocks"
	"github.com/Plant-GO/biodex/internal/worker"
)

func testAddress(b byte) common.PublicKey {
	return common.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

func testCommand() *messaging.Command {
	return &messaging.Command{
		ID:       "01JCOMMAND",
		Data:     []byte{3, 3, 4, 0, 0, 0, 'F', 'e', 'r', 'n', 1},
		Accounts: []string{testAddress(1).ToBase58(), testAddress(2).ToBase58()},
		Signers:  []string{testAddress(2).ToBase58()},
	}
}

// runCommand runs the worker with a subscriber delivering cmd once and returns the handler result
func runCommand(t *testing.T, cfg worker.Config, service issuance.Service, cmd *messaging.Command) error {
	t.Helper()
	ctrl := gomock.NewController(t)
	subscriber := mockspkg.NewMockSubscriber(ctrl)

	var handlerErr error
	subscriber.EXPECT().
		Subscribe(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, handler messaging.CommandHandler) error {
			handlerErr = handler(ctx, cmd)
			return context.Canceled
		})

	w := worker.New(cfg, subscriber, service)
	require.NoError(t, w.Run(context.Background()))
	return handlerErr
}

func TestToInvocation(t *testing.T) {
	inv, err := worker.ToInvocation(testCommand())
	require.NoError(t, err)
	assert.Equal(t, "01JCOMMAND", inv.ID)
	assert.Equal(t, []common.PublicKey{testAddress(1), testAddress(2)}, inv.Accounts)
	assert.Equal(t, []common.PublicKey{testAddress(2)}, inv.Signers)

	cmd := testCommand()
	cmd.Signers = []string{"0OIl"}
	_, err = worker.ToInvocation(cmd)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "signers")
}

func TestWorker_HandleCommand(t *testing.T) {
	conflict := fmt.Errorf("%w: could not serialize access", domain.ErrInvocationConflict)

	tests := []struct {
		name           string
		results        []error
		maxRetries     uint64
		expectErr      error
		expectTerminal bool
	}{
		{
			name:    "committed",
			results: []error{nil},
		},
		{
			name:       "conflict then committed",
			results:    []error{conflict, conflict, nil},
			maxRetries: 3,
		},
		{
			name:       "conflicts exhaust retries",
			results:    []error{conflict, conflict, conflict},
			maxRetries: 2,
			expectErr:  domain.ErrInvocationConflict,
		},
		{
			name:           "caller error is terminal",
			results:        []error{fmt.Errorf("check_ownership_unused: %w", domain.ErrAlreadyOwned)},
			maxRetries:     3,
			expectErr:      domain.ErrAlreadyOwned,
			expectTerminal: true,
		},
		{
			name:           "malformed instruction is terminal",
			results:        []error{domain.ErrMalformedInstruction},
			maxRetries:     3,
			expectErr:      domain.ErrMalformedInstruction,
			expectTerminal: true,
		},
		{
			name:       "infrastructure error is not retried in process",
			results:    []error{domain.ErrCorruptState},
			maxRetries: 3,
			expectErr:  domain.ErrCorruptState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mockspkg.NewMockIssuanceService(ctrl)

			var calls []*gomock.Call
			for _, result := range tt.results {
				result := result
				calls = append(calls, service.EXPECT().
					Submit(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv issuance.Invocation) (*issuance.Outcome, error) {
						assert.Equal(t, "01JCOMMAND", inv.ID)
						if result != nil {
							return nil, result
						}
						return &issuance.Outcome{InvocationID: inv.ID}, nil
					}))
			}
			gomock.InOrder(calls...)

			err := runCommand(t, worker.Config{
				WorkerPoolSize:       2,
				WorkerQueueSize:      4,
				MaxConflictRetries:   tt.maxRetries,
				InitialRetryInterval: time.Millisecond,
			}, service, testCommand())

			if tt.expectErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectErr)
			assert.Equal(t, tt.expectTerminal, errors.Is(err, messaging.ErrTerminal))
		})
	}
}

func TestWorker_HandleCommand_InvalidAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mockspkg.NewMockIssuanceService(ctrl)

	cmd := testCommand()
	cmd.Accounts = append(cmd.Accounts, "not-base58!")

	err := runCommand(t, worker.Config{MaxConflictRetries: 1}, service, cmd)
	assert.ErrorIs(t, err, messaging.ErrTerminal)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestWorker_Run_SubscribeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	subscriber := mockspkg.NewMockSubscriber(ctrl)
	service := mockspkg.NewMockIssuanceService(ctrl)

	subscriber.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(assert.AnError)

	w := worker.New(worker.Config{}, subscriber, service)
	assert.ErrorIs(t, w.Run(context.Background()), assert.AnError)

	subscriber.EXPECT().Close()
	w.Close()
}
