package rent

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/logger"
)

const (
	// ACCOUNT_STORAGE_OVERHEAD is the per-account metadata size charged on top of the data size
	ACCOUNT_STORAGE_OVERHEAD = 128
	// DEFAULT_LAMPORTS_PER_BYTE_YEAR is the default storage price
	DEFAULT_LAMPORTS_PER_BYTE_YEAR = 3480
	// DEFAULT_EXEMPTION_THRESHOLD is the default number of years of rent an account must hold
	DEFAULT_EXEMPTION_THRESHOLD = 2
)

//go:generate mockgen -source=rent.go -destination=../mocks/rent.go -package=mocks -mock_names=Oracle=MockRentOracle,RPCClient=MockRentRPCClient

// Oracle quotes the minimum funding an account of a given data size must hold
type Oracle interface {
	// MinimumBalance returns the minimum lamports for an account with size data bytes
	MinimumBalance(ctx context.Context, size uint64) (uint64, error)
}

// RPCClient is the subset of the chain RPC client used by the RPC oracle
type RPCClient interface {
	GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)
}

type localOracle struct {
	lamportsPerByteYear uint64
	exemptionThreshold  uint64
}

// NewLocalOracle creates an oracle computing (overhead + size) * price * threshold.
// Zero arguments take the defaults.
func NewLocalOracle(lamportsPerByteYear, exemptionThreshold uint64) Oracle {
	if lamportsPerByteYear == 0 {
		lamportsPerByteYear = DEFAULT_LAMPORTS_PER_BYTE_YEAR
	}
	if exemptionThreshold == 0 {
		exemptionThreshold = DEFAULT_EXEMPTION_THRESHOLD
	}
	return &localOracle{
		lamportsPerByteYear: lamportsPerByteYear,
		exemptionThreshold:  exemptionThreshold,
	}
}

func (o *localOracle) MinimumBalance(_ context.Context, size uint64) (uint64, error) {
	if size > math.MaxUint64-ACCOUNT_STORAGE_OVERHEAD {
		return 0, fmt.Errorf("%w: account size %d", domain.ErrCounterOverflow, size)
	}
	bytes := size + ACCOUNT_STORAGE_OVERHEAD

	perYear, ok := mulChecked(bytes, o.lamportsPerByteYear)
	if !ok {
		return 0, fmt.Errorf("%w: rent for %d bytes", domain.ErrCounterOverflow, size)
	}
	total, ok := mulChecked(perYear, o.exemptionThreshold)
	if !ok {
		return 0, fmt.Errorf("%w: rent for %d bytes", domain.ErrCounterOverflow, size)
	}
	return total, nil
}

type rpcOracle struct {
	client RPCClient
	mu     sync.RWMutex
	quotes map[uint64]uint64
}

// NewRPCOracle creates an oracle that asks a chain node and caches the quote per size
func NewRPCOracle(client RPCClient) Oracle {
	return &rpcOracle{
		client: client,
		quotes: make(map[uint64]uint64),
	}
}

func (o *rpcOracle) MinimumBalance(ctx context.Context, size uint64) (uint64, error) {
	o.mu.RLock()
	quote, ok := o.quotes[size]
	o.mu.RUnlock()
	if ok {
		return quote, nil
	}

	quote, err := o.client.GetMinimumBalanceForRentExemption(ctx, size)
	if err != nil {
		return 0, fmt.Errorf("failed to get minimum balance for rent exemption: %w", err)
	}
	logger.DebugCtx(ctx, "Fetched rent quote", zap.Uint64("size", size), zap.Uint64("lamports", quote))

	o.mu.Lock()
	o.quotes[size] = quote
	o.mu.Unlock()

	return quote, nil
}

func mulChecked(a, b uint64) (uint64, bool) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, false
	}
	return a * b, true
}
