package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Plant-GO/biodex/internal/store/schema"
)

const MAX_PAGE_SIZE = 100

// ListIssuancesQueryParams holds query parameters for GET /issuances
type ListIssuancesQueryParams struct {
	Holder      string `form:"holder"`
	SubjectName string `form:"subject_name"`
	Operation   string `form:"operation"`

	// Pagination
	Anchor *int64 `form:"anchor"`
	Limit  int    `form:"limit,default=20"`
}

// ParseListIssuancesQuery parses and validates query parameters for GET /issuances
func ParseListIssuancesQuery(c *gin.Context) (*ListIssuancesQueryParams, error) {
	var params ListIssuancesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &params, nil
}

// Validate checks the limit range and the operation name
func (p *ListIssuancesQueryParams) Validate() error {
	if p.Limit < 1 || p.Limit > MAX_PAGE_SIZE {
		return fmt.Errorf("limit must be between 1 and %d", MAX_PAGE_SIZE)
	}
	if p.Anchor != nil && *p.Anchor < 0 {
		return fmt.Errorf("anchor must not be negative")
	}

	switch schema.Operation(p.Operation) {
	case "", schema.OperationCreateAssetPool, schema.OperationIssueRegularCard, schema.OperationIssueQuizCard:
		return nil
	default:
		return fmt.Errorf("unknown operation: %s", p.Operation)
	}
}
