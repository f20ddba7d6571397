package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/instruction"
	"github.com/Plant-GO/biodex/internal/issuance"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/messaging"
)

const (
	DEFAULT_WORKER_POOL_SIZE  = 8
	DEFAULT_WORKER_QUEUE_SIZE = 256
)

// Config holds the worker settings
type Config struct {
	WorkerPoolSize  int
	WorkerQueueSize int
	// MaxConflictRetries bounds resubmissions of an invocation aborted by a concurrent one
	MaxConflictRetries uint64
	// InitialRetryInterval is the first backoff interval; zero uses 50ms
	InitialRetryInterval time.Duration
}

// Worker executes invocation commands from the broker
type Worker interface {
	// Run consumes commands until ctx is canceled
	Run(ctx context.Context) error
	// Close closes the subscriber
	Close()
}

type worker struct {
	config     Config
	subscriber messaging.Subscriber
	service    issuance.Service
	pool       pond.Pool
}

// New creates a worker submitting commands from subscriber to service
func New(cfg Config, subscriber messaging.Subscriber, service issuance.Service) Worker {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = DEFAULT_WORKER_POOL_SIZE
	}
	if cfg.WorkerQueueSize <= 0 {
		cfg.WorkerQueueSize = DEFAULT_WORKER_QUEUE_SIZE
	}
	if cfg.InitialRetryInterval <= 0 {
		cfg.InitialRetryInterval = 50 * time.Millisecond
	}

	return &worker{
		config:     cfg,
		subscriber: subscriber,
		service:    service,
	}
}

// Run consumes commands until ctx is canceled. A canceled context is a clean shutdown.
func (w *worker) Run(ctx context.Context) error {
	w.pool = pond.NewPool(
		w.config.WorkerPoolSize,
		pond.WithQueueSize(w.config.WorkerQueueSize),
		pond.WithContext(ctx),
	)

	logger.InfoCtx(ctx, "Worker pool created",
		zap.Int("workers", w.config.WorkerPoolSize),
		zap.Int("queue_size", w.config.WorkerQueueSize))

	defer func() {
		w.pool.StopAndWait()
		logger.InfoCtx(ctx, "Worker pool shutdown complete",
			zap.Uint64("total_submitted", w.pool.SubmittedTasks()),
			zap.Uint64("total_completed", w.pool.CompletedTasks()),
			zap.Uint64("total_failed", w.pool.FailedTasks()))
	}()

	err := w.subscriber.Subscribe(ctx, w.HandleCommand)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// HandleCommand runs cmd on the worker pool and waits for the result
func (w *worker) HandleCommand(ctx context.Context, cmd *messaging.Command) error {
	task := w.pool.SubmitErr(func() error {
		return w.execute(ctx, cmd)
	})
	return task.Wait()
}

// execute submits the invocation, resubmitting while it loses to concurrent invocations.
// Caller errors come back wrapped with messaging.Terminal.
func (w *worker) execute(ctx context.Context, cmd *messaging.Command) error {
	inv, err := ToInvocation(cmd)
	if err != nil {
		return messaging.Terminal(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.config.InitialRetryInterval
	b.MaxInterval = 2 * time.Second
	b.RandomizationFactor = 0.5

	var attempts int
	operation := func() error {
		attempts++
		_, err := w.service.Submit(ctx, inv)
		if err == nil || errors.Is(err, domain.ErrInvocationConflict) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, next time.Duration) {
		logger.WarnCtx(ctx, "Invocation conflicted, resubmitting",
			zap.String("invocation_id", inv.ID),
			zap.Int("attempt", attempts),
			zap.Duration("next_retry_in", next),
			zap.Error(err))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, w.config.MaxConflictRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		if domain.IsCallerError(err) {
			return messaging.Terminal(err)
		}
		return fmt.Errorf("invocation %s failed after %d attempts: %w", inv.ID, attempts, err)
	}

	return nil
}

// ToInvocation converts a broker command into an invocation
func ToInvocation(cmd *messaging.Command) (issuance.Invocation, error) {
	accounts, err := instruction.ParseAddressList(cmd.Accounts)
	if err != nil {
		return issuance.Invocation{}, fmt.Errorf("accounts: %w", err)
	}
	signers, err := instruction.ParseAddressList(cmd.Signers)
	if err != nil {
		return issuance.Invocation{}, fmt.Errorf("signers: %w", err)
	}

	return issuance.Invocation{
		ID:       cmd.ID,
		Data:     cmd.Data,
		Accounts: accounts,
		Signers:  signers,
	}, nil
}

// Close closes the subscriber
func (w *worker) Close() {
	w.subscriber.Close()
}
