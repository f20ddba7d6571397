package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/near/borsh-go"

	"github.com/Plant-GO/biodex/internal/domain"
)

const (
	// MaxOwnershipRecordSize is holder + length-prefixed name + rarity byte + pool reference
	MaxOwnershipRecordSize = common.PublicKeyLength + 4 + domain.MAX_SUBJECT_NAME_LEN + 1 + common.PublicKeyLength

	// counterFixedSize is everything in a counter encoding except the name bytes
	counterFixedSize = 4 + 7*8 + 1 + common.PublicKeyLength
)

type ownershipRecordWire struct {
	Holder      [32]byte
	SubjectName string
	Rarity      uint8
	AssetPool   [32]byte
}

type subjectCounterWire struct {
	SubjectName    string
	SeedCount      uint64
	RelicCount     uint64
	EpicCount      uint64
	RareCount      uint64
	CommonCount    uint64
	MasteryCount   uint64
	CodexCount     uint64
	HasFirstMinter bool
	FirstMinter    [32]byte
}

// EncodeOwnershipRecord serializes a record; the result is at most MaxOwnershipRecordSize bytes
func EncodeOwnershipRecord(r domain.OwnershipRecord) ([]byte, error) {
	if len(r.SubjectName) > domain.MAX_SUBJECT_NAME_LEN {
		return nil, fmt.Errorf("%w: subject name exceeds %d bytes", domain.ErrInvalidArgument, domain.MAX_SUBJECT_NAME_LEN)
	}

	data, err := borsh.Serialize(ownershipRecordWire{
		Holder:      r.Holder,
		SubjectName: r.SubjectName,
		Rarity:      uint8(r.Rarity),
		AssetPool:   r.AssetPool,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode ownership record: %w", err)
	}
	return data, nil
}

// DecodeOwnershipRecord decodes a record from a possibly zero-padded allocation
func DecodeOwnershipRecord(data []byte) (*domain.OwnershipRecord, error) {
	// the name length prefix follows the holder key
	const prefixAt = common.PublicKeyLength
	if len(data) < prefixAt+4 {
		return nil, fmt.Errorf("%w: ownership record is %d bytes", domain.ErrCorruptState, len(data))
	}
	nameLen := int(binary.LittleEndian.Uint32(data[prefixAt : prefixAt+4]))
	if nameLen > domain.MAX_SUBJECT_NAME_LEN {
		return nil, fmt.Errorf("%w: ownership record name length %d", domain.ErrCorruptState, nameLen)
	}
	size := prefixAt + 4 + nameLen + 1 + common.PublicKeyLength
	if len(data) < size {
		return nil, fmt.Errorf("%w: ownership record truncated", domain.ErrCorruptState)
	}
	if !isZeroPadded(data[size:]) {
		return nil, fmt.Errorf("%w: ownership record has trailing bytes", domain.ErrCorruptState)
	}

	var wire ownershipRecordWire
	if err := borsh.Deserialize(&wire, data[:size]); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}
	rarity := domain.RarityTier(wire.Rarity)
	if !rarity.Valid() {
		return nil, fmt.Errorf("%w: unknown rarity %d", domain.ErrCorruptState, wire.Rarity)
	}

	return &domain.OwnershipRecord{
		Holder:      common.PublicKey(wire.Holder),
		SubjectName: wire.SubjectName,
		Rarity:      rarity,
		AssetPool:   common.PublicKey(wire.AssetPool),
	}, nil
}

// SubjectCounterSize returns the fixed encoding size of a subject's counter
func SubjectCounterSize(subject string) int {
	return counterFixedSize + len(subject)
}

// EncodeSubjectCounter serializes a counter. The first minter slot is always present
// so the size depends only on the subject name.
func EncodeSubjectCounter(c domain.SubjectCounter) ([]byte, error) {
	wire := subjectCounterWire{
		SubjectName:  c.SubjectName,
		SeedCount:    c.SeedCount,
		RelicCount:   c.RelicCount,
		EpicCount:    c.EpicCount,
		RareCount:    c.RareCount,
		CommonCount:  c.CommonCount,
		MasteryCount: c.MasteryCount,
		CodexCount:   c.CodexCount,
	}
	if c.FirstMinter != nil {
		wire.HasFirstMinter = true
		wire.FirstMinter = *c.FirstMinter
	}

	data, err := borsh.Serialize(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to encode subject counter: %w", err)
	}
	return data, nil
}

// DecodeSubjectCounter decodes a counter, rejecting anything but the canonical encoding
func DecodeSubjectCounter(data []byte) (*domain.SubjectCounter, error) {
	if len(data) < counterFixedSize {
		return nil, fmt.Errorf("%w: subject counter is %d bytes", domain.ErrCorruptState, len(data))
	}
	nameLen := int(binary.LittleEndian.Uint32(data[:4]))
	if counterFixedSize+nameLen != len(data) {
		return nil, fmt.Errorf("%w: subject counter size %d does not match name length %d", domain.ErrCorruptState, len(data), nameLen)
	}

	var wire subjectCounterWire
	if err := borsh.Deserialize(&wire, data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}
	if !wire.HasFirstMinter && wire.FirstMinter != [32]byte{} {
		return nil, fmt.Errorf("%w: first minter set without flag", domain.ErrCorruptState)
	}

	c := &domain.SubjectCounter{
		SubjectName:  wire.SubjectName,
		SeedCount:    wire.SeedCount,
		RelicCount:   wire.RelicCount,
		EpicCount:    wire.EpicCount,
		RareCount:    wire.RareCount,
		CommonCount:  wire.CommonCount,
		MasteryCount: wire.MasteryCount,
		CodexCount:   wire.CodexCount,
	}
	if wire.HasFirstMinter {
		minter := common.PublicKey(wire.FirstMinter)
		c.FirstMinter = &minter
	}
	return c, nil
}

// isZeroPadded reports whether data is all zero bytes
func isZeroPadded(data []byte) bool {
	return len(bytes.Trim(data, "\x00")) == 0
}
