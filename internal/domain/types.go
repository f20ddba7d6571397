package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"
)

// RarityTier represents the rarity classification of a card
type RarityTier uint8

// Wire values are stable: they are part of derived addresses and stored records
const (
	RarityCommon             RarityTier = 0
	RarityRare               RarityTier = 1
	RarityEpic               RarityTier = 2
	RarityMastery            RarityTier = 3
	RarityKnowledge          RarityTier = 4
	RarityFirstKnownSighting RarityTier = 5
	RarityFirstNewSpecies    RarityTier = 6
)

// AllRarityTiers lists every tier in wire order
var AllRarityTiers = []RarityTier{
	RarityCommon,
	RarityRare,
	RarityEpic,
	RarityMastery,
	RarityKnowledge,
	RarityFirstKnownSighting,
	RarityFirstNewSpecies,
}

// RegularTiers are the tiers the regular path can award, in account order
var RegularTiers = []RarityTier{
	RarityFirstNewSpecies,
	RarityFirstKnownSighting,
	RarityEpic,
	RarityRare,
	RarityCommon,
}

// QuizTiers are the tiers the quiz path can award, in account order
var QuizTiers = []RarityTier{
	RarityMastery,
	RarityKnowledge,
}

var rarityNames = map[RarityTier]string{
	RarityCommon:             "common",
	RarityRare:               "rare",
	RarityEpic:               "epic",
	RarityMastery:            "mastery",
	RarityKnowledge:          "knowledge",
	RarityFirstKnownSighting: "first_known_sighting",
	RarityFirstNewSpecies:    "first_new_species",
}

var cardNames = map[RarityTier]string{
	RarityCommon:             "GenesisFragment",
	RarityRare:               "AstralShard",
	RarityEpic:               "MythicCrest",
	RarityMastery:            "AscendantSeal",
	RarityKnowledge:          "CodexOfInsight",
	RarityFirstKnownSighting: "PrimordialRelic",
	RarityFirstNewSpecies:    "AuroraSeed",
}

// Valid checks if the tier is a known value
func (r RarityTier) Valid() bool {
	_, ok := rarityNames[r]
	return ok
}

// String returns the snake_case name of the tier
func (r RarityTier) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rarity(%d)", uint8(r))
}

// CardName returns the collectible name used for the tier's asset pool
func (r RarityTier) CardName() string {
	return cardNames[r]
}

// ParseRarityTier parses a tier from its snake_case or card name
func ParseRarityTier(s string) (RarityTier, error) {
	for tier, name := range rarityNames {
		if strings.EqualFold(s, name) || strings.EqualFold(s, cardNames[tier]) {
			return tier, nil
		}
	}
	return 0, fmt.Errorf("unknown rarity tier: %s", s)
}

// PathKind identifies the decision domain of an issuance
type PathKind string

const (
	PathRegular PathKind = "regular"
	PathQuiz    PathKind = "quiz"
)

// Tiers returns the tiers the path may award
func (p PathKind) Tiers() []RarityTier {
	switch p {
	case PathRegular:
		return RegularTiers
	case PathQuiz:
		return QuizTiers
	default:
		return nil
	}
}

// Allows reports whether the path may use tier as its rarity tag
func (p PathKind) Allows(tier RarityTier) bool {
	for _, t := range p.Tiers() {
		if t == tier {
			return true
		}
	}
	return false
}

// ValidateSubjectName checks the subject name is non-empty UTF-8 within MAX_SUBJECT_NAME_LEN bytes
func ValidateSubjectName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: subject name is empty", ErrMalformedInstruction)
	}
	if len(name) > MAX_SUBJECT_NAME_LEN {
		return fmt.Errorf("%w: subject name exceeds %d bytes", ErrMalformedInstruction, MAX_SUBJECT_NAME_LEN)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: subject name is not valid UTF-8", ErrMalformedInstruction)
	}
	return nil
}

// ParseAddress strictly decodes a base58 address
func ParseAddress(s string) (common.PublicKey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(b) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("invalid address %q: expected %d bytes, got %d", s, common.PublicKeyLength, len(b))
	}
	return common.PublicKeyFromBytes(b), nil
}

// OwnershipRecord is the immutable proof that a holder owns a card of a tier for a subject
type OwnershipRecord struct {
	Holder      common.PublicKey
	SubjectName string
	Rarity      RarityTier
	AssetPool   common.PublicKey
}

// SubjectCounter is the per-subject tally of issuances
type SubjectCounter struct {
	SubjectName  string
	SeedCount    uint64
	RelicCount   uint64
	EpicCount    uint64
	RareCount    uint64
	CommonCount  uint64
	MasteryCount uint64
	CodexCount   uint64
	// FirstMinter is the holder of the first regular-path card, set once
	FirstMinter *common.PublicKey
}

// NewSubjectCounter returns the zero-valued counter for a subject
func NewSubjectCounter(subject string) SubjectCounter {
	return SubjectCounter{SubjectName: subject}
}

// Clone returns a deep copy of the counter
func (c SubjectCounter) Clone() SubjectCounter {
	out := c
	if c.FirstMinter != nil {
		minter := *c.FirstMinter
		out.FirstMinter = &minter
	}
	return out
}

// CardIssuedEvent is published after an issuance commits
type CardIssuedEvent struct {
	InvocationID     string     `json:"invocation_id"`
	Path             PathKind   `json:"path"`
	SubjectName      string     `json:"subject_name"`
	Holder           string     `json:"holder"`
	RarityTag        RarityTier `json:"rarity_tag"`
	Rarity           RarityTier `json:"rarity"`
	RarityName       string     `json:"rarity_name"`
	OwnershipAddress string     `json:"ownership_address"`
	AssetPool        string     `json:"asset_pool"`
	ReceivingAccount string     `json:"receiving_account"`
	IssuedAt         time.Time  `json:"issued_at"`
}

// PoolCreatedEvent is published after an asset pool is created
type PoolCreatedEvent struct {
	InvocationID string    `json:"invocation_id"`
	Pool         string    `json:"pool"`
	Title        string    `json:"title"`
	Symbol       string    `json:"symbol"`
	URI          string    `json:"uri"`
	CreatedAt    time.Time `json:"created_at"`
}
