package derive

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/Plant-GO/biodex/internal/domain"
)

const (
	// MAX_SEED_LEN is the maximum length of a single seed accepted by the address primitive
	MAX_SEED_LEN = 32
	// MAX_SEEDS is the maximum number of seeds including the salt
	MAX_SEEDS = 16
	// MAX_SALT is the first salt tried; the search walks down to zero
	MAX_SALT = 255
)

// CreateAddressFunc computes a program address from seeds; it must fail when the
// result lies on the ed25519 curve
type CreateAddressFunc func(seeds [][]byte, programID common.PublicKey) (common.PublicKey, error)

// Deriver computes program-exclusive addresses for a program
type Deriver struct {
	programID common.PublicKey
	create    CreateAddressFunc
}

// Option configures a Deriver
type Option func(*Deriver)

// WithCreateAddress replaces the address primitive
func WithCreateAddress(fn CreateAddressFunc) Option {
	return func(d *Deriver) {
		d.create = fn
	}
}

// New creates a deriver for programID
func New(programID common.PublicKey, opts ...Option) *Deriver {
	d := &Deriver{
		programID: programID,
		create:    common.CreateProgramAddress,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ProgramID returns the program the deriver derives for
func (d *Deriver) ProgramID() common.PublicKey {
	return d.programID
}

// Canonical finds the first salt, from MAX_SALT down to zero, for which seeds yield an
// address off the curve
func (d *Deriver) Canonical(seeds ...[]byte) (common.PublicKey, uint8, error) {
	chunks, err := chunkSeeds(seeds)
	if err != nil {
		return common.PublicKey{}, 0, err
	}

	withSalt := make([][]byte, len(chunks)+1)
	copy(withSalt, chunks)
	for salt := MAX_SALT; salt >= 0; salt-- {
		withSalt[len(chunks)] = []byte{uint8(salt)}
		addr, err := d.create(withSalt, d.programID)
		if err == nil {
			return addr, uint8(salt), nil
		}
	}

	return common.PublicKey{}, 0, fmt.Errorf("%w: no salt in [0, %d] for %d seeds", domain.ErrDerivationExhausted, MAX_SALT, len(seeds))
}

// Address derives with an explicit salt
func (d *Deriver) Address(salt uint8, seeds ...[]byte) (common.PublicKey, error) {
	chunks, err := chunkSeeds(seeds)
	if err != nil {
		return common.PublicKey{}, err
	}
	return d.create(append(chunks, []byte{salt}), d.programID)
}

// Verify checks that seeds and salt authorize address
func (d *Deriver) Verify(address common.PublicKey, salt uint8, seeds ...[]byte) bool {
	derived, err := d.Address(salt, seeds...)
	return err == nil && derived == address
}

// Ownership derives the ownership record address for (subject, holder, rarity tag)
func (d *Deriver) Ownership(subject string, holder common.PublicKey, tag domain.RarityTier) (common.PublicKey, uint8, error) {
	return d.Canonical(OwnershipSeeds(subject, holder, tag)...)
}

// SubjectCounter derives the counter address for a subject
func (d *Deriver) SubjectCounter(subject string) (common.PublicKey, uint8, error) {
	return d.Canonical(SubjectCounterSeeds(subject)...)
}

// MintAuthority derives the program-held mint authority
func (d *Deriver) MintAuthority() (common.PublicKey, uint8, error) {
	return d.Canonical(MintAuthoritySeeds()...)
}

// OwnershipSeeds returns the seeds of an ownership record address
func OwnershipSeeds(subject string, holder common.PublicKey, tag domain.RarityTier) [][]byte {
	return [][]byte{
		[]byte(domain.SEED_OWNERSHIP),
		[]byte(subject),
		holder.Bytes(),
		{uint8(tag)},
	}
}

// SubjectCounterSeeds returns the seeds of a subject counter address
func SubjectCounterSeeds(subject string) [][]byte {
	return [][]byte{
		[]byte(domain.SEED_SUBJECT_COUNTER),
		[]byte(subject),
	}
}

// MintAuthoritySeeds returns the seeds of the mint authority address
func MintAuthoritySeeds() [][]byte {
	return [][]byte{[]byte(domain.SEED_MINT_AUTHORITY)}
}

// chunkSeeds splits seeds longer than MAX_SEED_LEN. The address hash covers the
// concatenation of all seeds, so splitting does not change the result.
func chunkSeeds(seeds [][]byte) ([][]byte, error) {
	chunks := make([][]byte, 0, len(seeds))
	for _, seed := range seeds {
		for len(seed) > MAX_SEED_LEN {
			chunks = append(chunks, seed[:MAX_SEED_LEN])
			seed = seed[MAX_SEED_LEN:]
		}
		chunks = append(chunks, seed)
	}
	if len(chunks)+1 > MAX_SEEDS {
		return nil, fmt.Errorf("%w: %d seeds exceed the limit of %d", domain.ErrInvalidArgument, len(chunks), MAX_SEEDS-1)
	}
	return chunks, nil
}
