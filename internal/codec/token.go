package codec

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/near/borsh-go"

	"github.com/Plant-GO/biodex/internal/domain"
)

const (
	// TokenAccountSize is mint + owner + amount
	TokenAccountSize = 2*common.PublicKeyLength + 8

	// poolFixedSize is everything in a pool encoding except metadata string bytes
	poolFixedSize = common.PublicKeyLength + 8 + 1 + 3*4
)

// Pool is the state of an asset pool account
type Pool struct {
	MintAuthority common.PublicKey
	Supply        uint64
	Decimals      uint8
	Title         string
	Symbol        string
	URI           string
}

// TokenAccount is the state of a receiving account holding units of one pool
type TokenAccount struct {
	Mint   common.PublicKey
	Owner  common.PublicKey
	Amount uint64
}

type poolWire struct {
	MintAuthority [32]byte
	Supply        uint64
	Decimals      uint8
	Title         string
	Symbol        string
	URI           string
}

type tokenAccountWire struct {
	Mint   [32]byte
	Owner  [32]byte
	Amount uint64
}

// PoolSize returns the encoded size of a pool with the given metadata
func PoolSize(title, symbol, uri string) int {
	return poolFixedSize + len(title) + len(symbol) + len(uri)
}

func EncodePool(p Pool) ([]byte, error) {
	data, err := borsh.Serialize(poolWire{
		MintAuthority: p.MintAuthority,
		Supply:        p.Supply,
		Decimals:      p.Decimals,
		Title:         p.Title,
		Symbol:        p.Symbol,
		URI:           p.URI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode pool: %w", err)
	}
	return data, nil
}

func DecodePool(data []byte) (*Pool, error) {
	if len(data) < poolFixedSize {
		return nil, fmt.Errorf("%w: pool is %d bytes", domain.ErrCorruptState, len(data))
	}

	var wire poolWire
	if err := borsh.Deserialize(&wire, data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}
	if PoolSize(wire.Title, wire.Symbol, wire.URI) != len(data) {
		return nil, fmt.Errorf("%w: pool has trailing bytes", domain.ErrCorruptState)
	}

	return &Pool{
		MintAuthority: common.PublicKey(wire.MintAuthority),
		Supply:        wire.Supply,
		Decimals:      wire.Decimals,
		Title:         wire.Title,
		Symbol:        wire.Symbol,
		URI:           wire.URI,
	}, nil
}

func EncodeTokenAccount(a TokenAccount) ([]byte, error) {
	data, err := borsh.Serialize(tokenAccountWire{
		Mint:   a.Mint,
		Owner:  a.Owner,
		Amount: a.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode token account: %w", err)
	}
	return data, nil
}

func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) != TokenAccountSize {
		return nil, fmt.Errorf("%w: token account is %d bytes", domain.ErrCorruptState, len(data))
	}

	var wire tokenAccountWire
	if err := borsh.Deserialize(&wire, data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}

	return &TokenAccount{
		Mint:   common.PublicKey(wire.Mint),
		Owner:  common.PublicKey(wire.Owner),
		Amount: wire.Amount,
	}, nil
}
