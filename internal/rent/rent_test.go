package rent_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/codec"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/mocks"
	"github.com/Plant-GO/biodex/internal/ratelimit"
	"github.com/Plant-GO/biodex/internal/rent"
)

func TestLocalOracle_MinimumBalance(t *testing.T) {
	oracle := rent.NewLocalOracle(0, 0)
	ctx := context.Background()

	tests := []struct {
		name     string
		size     uint64
		expected uint64
	}{
		{name: "empty account", size: 0, expected: 890880},
		{name: "ownership record", size: codec.MaxOwnershipRecordSize, expected: (128 + 119) * 3480 * 2},
		{name: "token account", size: codec.TokenAccountSize, expected: (128 + 72) * 3480 * 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lamports, err := oracle.MinimumBalance(ctx, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lamports)
		})
	}
}

func TestLocalOracle_Overflow(t *testing.T) {
	oracle := rent.NewLocalOracle(math.MaxUint64/2, 3)

	_, err := oracle.MinimumBalance(context.Background(), 1)
	assert.True(t, errors.Is(err, domain.ErrCounterOverflow))

	_, err = rent.NewLocalOracle(0, 0).MinimumBalance(context.Background(), math.MaxUint64)
	assert.True(t, errors.Is(err, domain.ErrCounterOverflow))
}

func TestRPCOracle_CachesQuotes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRentRPCClient(ctrl)
	client.EXPECT().GetMinimumBalanceForRentExemption(gomock.Any(), uint64(119)).Return(uint64(1718880), nil).Times(1)

	oracle := rent.NewRPCOracle(client)
	for i := 0; i < 3; i++ {
		lamports, err := oracle.MinimumBalance(context.Background(), 119)
		require.NoError(t, err)
		assert.Equal(t, uint64(1718880), lamports)
	}
}

func TestRPCOracle_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRentRPCClient(ctrl)
	client.EXPECT().GetMinimumBalanceForRentExemption(gomock.Any(), uint64(10)).Return(uint64(0), errors.New("rpc down")).Times(2)

	oracle := rent.NewRPCOracle(client)
	_, err := oracle.MinimumBalance(context.Background(), 10)
	assert.ErrorContains(t, err, "rpc down")

	// failures are not cached
	_, err = oracle.MinimumBalance(context.Background(), 10)
	assert.Error(t, err)
}

func TestThrottledClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRentRPCClient(ctrl)
	proxy := mocks.NewMockRateLimitProxy(ctrl)

	client.EXPECT().GetMinimumBalanceForRentExemption(gomock.Any(), uint64(82)).Return(uint64(1461600), nil)
	proxy.EXPECT().
		Request(gomock.Any(), ratelimit.PROVIDER_SOLANA_RPC, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, fn ratelimit.RequestFunc) (interface{}, error) {
			return fn(ctx)
		})

	lamports, err := rent.NewThrottledClient(client, proxy).GetMinimumBalanceForRentExemption(context.Background(), 82)
	require.NoError(t, err)
	assert.Equal(t, uint64(1461600), lamports)
}

func TestThrottledClient_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRentRPCClient(ctrl)
	proxy := mocks.NewMockRateLimitProxy(ctrl)
	proxy.EXPECT().Request(gomock.Any(), ratelimit.PROVIDER_SOLANA_RPC, gomock.Any()).Return(nil, context.DeadlineExceeded)

	oracle := rent.NewRPCOracle(rent.NewThrottledClient(client, proxy))
	_, err := oracle.MinimumBalance(context.Background(), 82)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
