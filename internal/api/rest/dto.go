package rest

import (
	"encoding/json"
	"time"

	"github.com/blocto/solana-go-sdk/common"

	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/issuance"
	"github.com/Plant-GO/biodex/internal/store/schema"
)

// SubmitInvocationRequest is a raw invocation. Data is the base64 instruction envelope.
type SubmitInvocationRequest struct {
	ID       string   `json:"id"`
	Data     []byte   `json:"data" binding:"required"`
	Accounts []string `json:"accounts" binding:"required"`
	Signers  []string `json:"signers"`
}

// IssueRegularCardRequest issues a card on the regular path
type IssueRegularCardRequest struct {
	SubjectName  string `json:"subject_name" binding:"required"`
	Holder       string `json:"holder" binding:"required"`
	RarityTag    string `json:"rarity_tag" binding:"required"`
	IsNewSubject bool   `json:"is_new_subject"`
}

// IssueQuizCardRequest issues a card on the quiz path
type IssueQuizCardRequest struct {
	SubjectName string `json:"subject_name" binding:"required"`
	Holder      string `json:"holder" binding:"required"`
	RarityTag   string `json:"rarity_tag" binding:"required"`
	Winner      bool   `json:"winner"`
}

// CreateAssetPoolRequest creates the pool of a tier
type CreateAssetPoolRequest struct {
	Tier   string `json:"tier" binding:"required"`
	Pool   string `json:"pool" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Symbol string `json:"symbol" binding:"required"`
	URI    string `json:"uri" binding:"required"`
}

// CounterResponse is a subject counter
type CounterResponse struct {
	SubjectName  string  `json:"subject_name"`
	SeedCount    uint64  `json:"seed_count"`
	RelicCount   uint64  `json:"relic_count"`
	EpicCount    uint64  `json:"epic_count"`
	RareCount    uint64  `json:"rare_count"`
	CommonCount  uint64  `json:"common_count"`
	MasteryCount uint64  `json:"mastery_count"`
	CodexCount   uint64  `json:"codex_count"`
	FirstMinter  *string `json:"first_minter"`
}

// OutcomeResponse describes a committed invocation
type OutcomeResponse struct {
	InvocationID     string           `json:"invocation_id"`
	Path             string           `json:"path,omitempty"`
	SubjectName      string           `json:"subject_name,omitempty"`
	Holder           string           `json:"holder,omitempty"`
	RarityTag        string           `json:"rarity_tag,omitempty"`
	Rarity           string           `json:"rarity,omitempty"`
	CardName         string           `json:"card_name,omitempty"`
	IsFirst          bool             `json:"is_first"`
	OwnershipAddress string           `json:"ownership_address,omitempty"`
	AssetPool        string           `json:"asset_pool"`
	ReceivingAccount string           `json:"receiving_account,omitempty"`
	Counter          *CounterResponse `json:"counter,omitempty"`
}

// OwnershipResponse is an ownership record with its address
type OwnershipResponse struct {
	Address     string `json:"address"`
	Holder      string `json:"holder"`
	SubjectName string `json:"subject_name"`
	Rarity      string `json:"rarity"`
	CardName    string `json:"card_name"`
	AssetPool   string `json:"asset_pool"`
}

// IssuanceResponse is one issuance journal entry
type IssuanceResponse struct {
	Cursor       int64           `json:"cursor"`
	InvocationID string          `json:"invocation_id"`
	Operation    string          `json:"operation"`
	SubjectName  string          `json:"subject_name,omitempty"`
	Holder       string          `json:"holder,omitempty"`
	Rarity       *string         `json:"rarity,omitempty"`
	Address      string          `json:"address"`
	AssetPool    string          `json:"asset_pool"`
	CreatedAt    time.Time       `json:"created_at"`
	Meta         json.RawMessage `json:"meta,omitempty"`
}

// IssuanceListResponse is a page of journal entries
type IssuanceListResponse struct {
	Items []IssuanceResponse `json:"items"`
	Total uint64             `json:"total"`
	// NextAnchor is the cursor to pass as anchor for the next page; nil on the last page
	NextAnchor *int64 `json:"next_anchor"`
}

// PoolResponse is a registered asset pool
type PoolResponse struct {
	Tier     string `json:"tier"`
	CardName string `json:"card_name"`
	Pool     string `json:"pool"`
}

func toCounterResponse(c *domain.SubjectCounter) *CounterResponse {
	if c == nil {
		return nil
	}
	out := &CounterResponse{
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
		minter := c.FirstMinter.ToBase58()
		out.FirstMinter = &minter
	}
	return out
}

func toOutcomeResponse(o *issuance.Outcome) OutcomeResponse {
	out := OutcomeResponse{
		InvocationID: o.InvocationID,
		AssetPool:    o.AssetPool.ToBase58(),
	}
	// pool creation carries no card fields
	if o.Path == "" {
		return out
	}

	out.Path = string(o.Path)
	out.SubjectName = o.SubjectName
	out.Holder = o.Holder.ToBase58()
	out.RarityTag = o.RarityTag.String()
	out.Rarity = o.Rarity.String()
	out.CardName = o.Rarity.CardName()
	out.IsFirst = o.IsFirst
	out.OwnershipAddress = o.Ownership.ToBase58()
	out.ReceivingAccount = o.Receiving.ToBase58()
	counter := o.Counter.Clone()
	out.Counter = toCounterResponse(&counter)
	return out
}

func toOwnershipResponse(address common.PublicKey, r *domain.OwnershipRecord) OwnershipResponse {
	return OwnershipResponse{
		Address:     address.ToBase58(),
		Holder:      r.Holder.ToBase58(),
		SubjectName: r.SubjectName,
		Rarity:      r.Rarity.String(),
		CardName:    r.Rarity.CardName(),
		AssetPool:   r.AssetPool.ToBase58(),
	}
}

func toIssuanceResponse(e *schema.IssuanceJournal) IssuanceResponse {
	out := IssuanceResponse{
		Cursor:       e.Cursor,
		InvocationID: e.InvocationID,
		Operation:    string(e.Operation),
		SubjectName:  e.SubjectName,
		Holder:       e.Holder,
		Rarity:       e.Rarity,
		Address:      e.Address,
		AssetPool:    e.AssetPool,
		CreatedAt:    e.CreatedAt,
	}
	if len(e.Meta) > 0 {
		out.Meta = json.RawMessage(e.Meta)
	}
	return out
}
