package rarity

import (
	"fmt"
	"math"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/Plant-GO/biodex/internal/domain"
)

// Path is the decision domain of an issuance: Regular or Quiz
type Path interface {
	Kind() domain.PathKind
	isPath()
}

// Regular is the discovery path
type Regular struct {
	// IsNewSubject reports whether the subject is a species new to the catalogue
	IsNewSubject bool
}

// Quiz is the quiz path
type Quiz struct {
	Winner bool
}

func (Regular) Kind() domain.PathKind { return domain.PathRegular }
func (Regular) isPath()               {}
func (Quiz) Kind() domain.PathKind    { return domain.PathQuiz }
func (Quiz) isPath()                  {}

// Decision is the awarded tier and the counter after the award
type Decision struct {
	Tier    domain.RarityTier
	Counter domain.SubjectCounter
}

// IsFirstChainOccurrence reports whether no first discoverer has been recorded for the subject
func IsFirstChainOccurrence(counter domain.SubjectCounter) bool {
	return counter.FirstMinter == nil
}

// Decide computes the tier for holder and the updated counter. It does not modify counter.
func Decide(counter domain.SubjectCounter, holder common.PublicKey, isFirst bool, path Path) (Decision, error) {
	next := counter.Clone()

	switch p := path.(type) {
	case Regular:
		tier, err := decideRegular(&next, holder, isFirst, p.IsNewSubject)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Tier: tier, Counter: next}, nil

	case Quiz:
		if p.Winner {
			if err := increment(&next.MasteryCount, "mastery_count"); err != nil {
				return Decision{}, err
			}
			return Decision{Tier: domain.RarityMastery, Counter: next}, nil
		}
		if err := increment(&next.CodexCount, "codex_count"); err != nil {
			return Decision{}, err
		}
		return Decision{Tier: domain.RarityKnowledge, Counter: next}, nil

	default:
		return Decision{}, fmt.Errorf("%w: unknown path %T", domain.ErrMalformedInstruction, path)
	}
}

// decideRegular applies the discovery cascade; the first matching rule wins
func decideRegular(c *domain.SubjectCounter, holder common.PublicKey, isFirst, isNew bool) (domain.RarityTier, error) {
	switch {
	case isNew && isFirst && c.SeedCount == 0:
		if err := increment(&c.EpicCount, "epic_count"); err != nil {
			return 0, err
		}
		if err := increment(&c.SeedCount, "seed_count"); err != nil {
			return 0, err
		}
		setFirstMinter(c, holder)
		return domain.RarityFirstNewSpecies, nil

	case !isNew && isFirst && c.RelicCount == 0:
		if err := increment(&c.EpicCount, "epic_count"); err != nil {
			return 0, err
		}
		if err := increment(&c.RelicCount, "relic_count"); err != nil {
			return 0, err
		}
		setFirstMinter(c, holder)
		return domain.RarityFirstKnownSighting, nil

	case c.EpicCount < domain.MAX_EPIC:
		if err := increment(&c.EpicCount, "epic_count"); err != nil {
			return 0, err
		}
		return domain.RarityEpic, nil

	case c.RareCount < domain.MAX_RARE:
		if err := increment(&c.RareCount, "rare_count"); err != nil {
			return 0, err
		}
		return domain.RarityRare, nil

	default:
		if err := increment(&c.CommonCount, "common_count"); err != nil {
			return 0, err
		}
		return domain.RarityCommon, nil
	}
}

func setFirstMinter(c *domain.SubjectCounter, holder common.PublicKey) {
	minter := holder
	c.FirstMinter = &minter
}

func increment(v *uint64, field string) error {
	if *v == math.MaxUint64 {
		return fmt.Errorf("%w: %s", domain.ErrCounterOverflow, field)
	}
	*v++
	return nil
}
