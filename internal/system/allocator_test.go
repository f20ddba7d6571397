package system_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plant-GO/biodex/internal/derive"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/system"
)

var (
	programID = common.PublicKeyFromBytes(bytes.Repeat([]byte{7}, 32))
	payer     = common.PublicKeyFromBytes(bytes.Repeat([]byte{1}, 32))
	signer    = common.PublicKeyFromBytes(bytes.Repeat([]byte{2}, 32))
)

func setup(t *testing.T, funding uint64) (store.Store, system.Allocator, *derive.Deriver) {
	s := store.NewMemoryStore()
	if funding > 0 {
		require.NoError(t, s.Fund(context.Background(), payer, funding))
	}
	d := derive.New(programID)
	return s, system.NewAllocator(), d
}

func TestCreateAccount_Signed(t *testing.T) {
	ctx := context.Background()
	s, alloc, _ := setup(t, 1000)

	err := s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		return alloc.CreateAccount(ctx, tx, system.CreateAccountRequest{
			Payer:    payer,
			Address:  signer,
			Lamports: 400,
			Space:    16,
			Owner:    common.TokenProgramID,
			Auth:     system.SignedBy(),
		})
	})
	require.NoError(t, err)

	created, err := s.GetAccount(ctx, signer)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), created.Lamports)
	assert.Equal(t, common.TokenProgramID, created.Owner)
	assert.Equal(t, make([]byte, 16), created.Data)

	funder, err := s.GetAccount(ctx, payer)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), funder.Lamports)
}

func TestCreateAccount_Derived(t *testing.T) {
	ctx := context.Background()
	s, alloc, d := setup(t, 1000)

	seeds := derive.SubjectCounterSeeds("Sunflower")
	address, salt, err := d.Canonical(seeds...)
	require.NoError(t, err)

	err = s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
		return alloc.CreateAccount(ctx, tx, system.CreateAccountRequest{
			Payer: payer, Address: address, Lamports: 10, Space: 8, Owner: programID,
			Auth: system.DerivedFrom(d, salt, seeds...),
		})
	})
	require.NoError(t, err)

	created, err := s.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.True(t, created.Exists())
}

func TestCreateAccount_Rejections(t *testing.T) {
	ctx := context.Background()
	seeds := derive.SubjectCounterSeeds("Sunflower")

	tests := []struct {
		name    string
		funding uint64
		req     func(d *derive.Deriver) system.CreateAccountRequest
		prepare func(t *testing.T, s store.Store)
		wantErr error
	}{
		{
			name:    "unauthorized address",
			funding: 1000,
			req: func(d *derive.Deriver) system.CreateAccountRequest {
				return system.CreateAccountRequest{Payer: payer, Address: signer, Lamports: 1, Owner: programID,
					Auth: system.DerivedFrom(d, 255, seeds...)}
			},
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "insufficient funds",
			funding: 5,
			req: func(d *derive.Deriver) system.CreateAccountRequest {
				return system.CreateAccountRequest{Payer: payer, Address: signer, Lamports: 6, Owner: programID, Auth: system.SignedBy()}
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name: "unfunded payer",
			req: func(d *derive.Deriver) system.CreateAccountRequest {
				return system.CreateAccountRequest{Payer: payer, Address: signer, Lamports: 1, Owner: programID, Auth: system.SignedBy()}
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:    "address in use",
			funding: 1000,
			prepare: func(t *testing.T, s store.Store) {
				require.NoError(t, s.Fund(ctx, signer, 1))
			},
			req: func(d *derive.Deriver) system.CreateAccountRequest {
				return system.CreateAccountRequest{Payer: payer, Address: signer, Lamports: 1, Owner: programID, Auth: system.SignedBy()}
			},
			wantErr: domain.ErrAccountAlreadyInUse,
		},
		{
			name:    "payer funds itself",
			funding: 1000,
			req: func(d *derive.Deriver) system.CreateAccountRequest {
				return system.CreateAccountRequest{Payer: payer, Address: payer, Lamports: 1, Owner: programID, Auth: system.SignedBy()}
			},
			wantErr: domain.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, alloc, d := setup(t, tt.funding)
			if tt.prepare != nil {
				tt.prepare(t, s)
			}

			err := s.RunInvocation(ctx, func(ctx context.Context, tx store.Tx) error {
				return alloc.CreateAccount(ctx, tx, tt.req(d))
			})
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			funder, err := s.GetAccount(ctx, payer)
			require.NoError(t, err)
			if tt.funding > 0 {
				assert.Equal(t, tt.funding, funder.Lamports)
			}
		})
	}
}
