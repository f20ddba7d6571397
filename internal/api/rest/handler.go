package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/instruction"
	"github.com/Plant-GO/biodex/internal/issuance"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/store/schema"
)

// Handler defines the REST API handlers
type Handler interface {
	// SubmitInvocation runs a raw invocation
	// POST /api/v1/invocations
	SubmitInvocation(c *gin.Context)

	// IssueRegularCard issues a regular-path card paid by the service payer
	// POST /api/v1/cards/regular
	IssueRegularCard(c *gin.Context)

	// IssueQuizCard issues a quiz-path card paid by the service payer
	// POST /api/v1/cards/quiz
	IssueQuizCard(c *gin.Context)

	// CreateAssetPool creates and registers the pool of a tier
	// POST /api/v1/pools
	CreateAssetPool(c *gin.Context)

	// ListPools returns the registered pool of every tier
	// GET /api/v1/pools
	ListPools(c *gin.Context)

	// GetCounter returns the counter of a subject
	// GET /api/v1/subjects/:subject/counter
	GetCounter(c *gin.Context)

	// GetOwnership returns the ownership record of a (subject, holder, rarity_tag) triple
	// GET /api/v1/subjects/:subject/ownership/:holder?rarity_tag=<tier>
	GetOwnership(c *gin.Context)

	// ListIssuances lists the issuance journal
	// GET /api/v1/issuances?holder=<address>&subject_name=<name>&operation=<op>&anchor=<cursor>&limit=<limit>
	ListIssuances(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

type handler struct {
	service issuance.Service
}

// NewHandler creates a new REST API handler
func NewHandler(service issuance.Service) Handler {
	return &handler{service: service}
}

func (h *handler) SubmitInvocation(c *gin.Context) {
	var req SubmitInvocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	accounts, err := instruction.ParseAddressList(req.Accounts)
	if err != nil {
		respondBadRequest(c, "Invalid accounts", err.Error())
		return
	}
	signers, err := instruction.ParseAddressList(req.Signers)
	if err != nil {
		respondBadRequest(c, "Invalid signers", err.Error())
		return
	}

	outcome, err := h.service.Submit(c.Request.Context(), issuance.Invocation{
		ID:       req.ID,
		Data:     req.Data,
		Accounts: accounts,
		Signers:  signers,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to submit invocation")
		return
	}

	c.JSON(http.StatusOK, toOutcomeResponse(outcome))
}

func (h *handler) IssueRegularCard(c *gin.Context) {
	var req IssueRegularCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	h.issueCard(c, domain.PathRegular, req.SubjectName, req.Holder, req.RarityTag, func(r *issuance.CardRequest) {
		r.IsNewSubject = req.IsNewSubject
	})
}

func (h *handler) IssueQuizCard(c *gin.Context) {
	var req IssueQuizCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	h.issueCard(c, domain.PathQuiz, req.SubjectName, req.Holder, req.RarityTag, func(r *issuance.CardRequest) {
		r.Winner = req.Winner
	})
}

func (h *handler) issueCard(c *gin.Context, path domain.PathKind, subject, holder, tag string, fill func(*issuance.CardRequest)) {
	holderKey, err := domain.ParseAddress(holder)
	if err != nil {
		respondBadRequest(c, "Invalid holder", err.Error())
		return
	}
	rarityTag, err := domain.ParseRarityTier(tag)
	if err != nil {
		respondBadRequest(c, "Invalid rarity tag", err.Error())
		return
	}

	req := issuance.CardRequest{
		Path:        path,
		RarityTag:   rarityTag,
		SubjectName: subject,
		Holder:      holderKey,
	}
	fill(&req)

	outcome, err := h.service.IssueCard(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to issue card")
		return
	}

	c.JSON(http.StatusCreated, toOutcomeResponse(outcome))
}

func (h *handler) CreateAssetPool(c *gin.Context) {
	var req CreateAssetPoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	tier, err := domain.ParseRarityTier(req.Tier)
	if err != nil {
		respondBadRequest(c, "Invalid tier", err.Error())
		return
	}
	pool, err := domain.ParseAddress(req.Pool)
	if err != nil {
		respondBadRequest(c, "Invalid pool", err.Error())
		return
	}

	outcome, err := h.service.CreateAssetPool(c.Request.Context(), issuance.PoolRequest{
		Tier:   tier,
		Pool:   pool,
		Title:  req.Title,
		Symbol: req.Symbol,
		URI:    req.URI,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create asset pool")
		return
	}

	c.JSON(http.StatusCreated, toOutcomeResponse(outcome))
}

func (h *handler) ListPools(c *gin.Context) {
	pools, err := h.service.GetPools(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list pools")
		return
	}

	items := make([]PoolResponse, 0, len(pools))
	for _, tier := range domain.AllRarityTiers {
		pool, ok := pools[tier]
		if !ok {
			continue
		}
		items = append(items, PoolResponse{
			Tier:     tier.String(),
			CardName: tier.CardName(),
			Pool:     pool.ToBase58(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *handler) GetCounter(c *gin.Context) {
	subject := c.Param("subject")
	if err := domain.ValidateSubjectName(subject); err != nil {
		respondBadRequest(c, "Invalid subject name", err.Error())
		return
	}

	counter, err := h.service.GetCounter(c.Request.Context(), subject)
	if err != nil {
		respondServiceError(c, err, "Failed to get counter")
		return
	}
	if counter == nil {
		respondNotFound(c, "Counter not found")
		return
	}

	c.JSON(http.StatusOK, toCounterResponse(counter))
}

func (h *handler) GetOwnership(c *gin.Context) {
	subject := c.Param("subject")
	if err := domain.ValidateSubjectName(subject); err != nil {
		respondBadRequest(c, "Invalid subject name", err.Error())
		return
	}
	holder, err := domain.ParseAddress(c.Param("holder"))
	if err != nil {
		respondBadRequest(c, "Invalid holder", err.Error())
		return
	}
	tag, err := domain.ParseRarityTier(c.Query("rarity_tag"))
	if err != nil {
		respondBadRequest(c, "Invalid rarity tag", err.Error())
		return
	}

	view, err := h.service.GetOwnership(c.Request.Context(), subject, holder, tag)
	if err != nil {
		respondServiceError(c, err, "Failed to get ownership")
		return
	}
	if view.Record == nil {
		respondNotFound(c, "Ownership record not found", view.Address.ToBase58())
		return
	}

	c.JSON(http.StatusOK, toOwnershipResponse(view.Address, view.Record))
}

func (h *handler) ListIssuances(c *gin.Context) {
	params, err := ParseListIssuancesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	entries, total, err := h.service.GetIssuances(c.Request.Context(), store.IssuanceQueryFilter{
		Holder:      params.Holder,
		SubjectName: params.SubjectName,
		Operation:   schema.Operation(params.Operation),
		Anchor:      params.Anchor,
		Limit:       params.Limit,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to list issuances")
		return
	}

	resp := IssuanceListResponse{
		Items: make([]IssuanceResponse, 0, len(entries)),
		Total: total,
	}
	for _, e := range entries {
		resp.Items = append(resp.Items, toIssuanceResponse(e))
	}
	if len(entries) == params.Limit {
		next := entries[len(entries)-1].Cursor
		resp.NextAnchor = &next
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "biodex-api",
	})
}
