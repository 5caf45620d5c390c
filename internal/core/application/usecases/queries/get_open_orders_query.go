package queries

import (
	"errors"
	"time"

	"tableside/internal/pkg/errs"
	"tableside/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOpenOrdersQueryIsNotConstructed = errors.New(
	"GetOpenOrdersQuery must be created via NewGetOpenOrdersQuery constructor",
)

// GetOpenOrdersQuery lists every active (open or paid) order for one site.
// Feeds the floor dashboard and the end-of-day close job.
type GetOpenOrdersQuery struct {
	guard guard.ConstructorGuard

	orgID  string
	siteID string
}

// NewGetOpenOrdersQuery creates a query for a site's active orders.
func NewGetOpenOrdersQuery(orgID, siteID string) (GetOpenOrdersQuery, error) {
	var err error
	if orgID == "" {
		err = errors.Join(err, errs.NewValidationError("orgId"))
	}
	if siteID == "" {
		err = errors.Join(err, errs.NewValidationError("siteId"))
	}
	if err != nil {
		return GetOpenOrdersQuery{}, err
	}

	return GetOpenOrdersQuery{
		guard:  guard.NewConstructorGuard(),
		orgID:  orgID,
		siteID: siteID,
	}, nil
}

// OrgID returns the organization scope of the query.
func (q GetOpenOrdersQuery) OrgID() string { return q.orgID }

// SiteID returns the site scope of the query.
func (q GetOpenOrdersQuery) SiteID() string { return q.siteID }

// Validate ensures the query was created through the constructor.
func (q GetOpenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenOrdersQueryIsNotConstructed)
}

// GetOpenOrdersQueryResponse is one active order in the site listing.
type GetOpenOrdersQueryResponse struct {
	OrderID    string          `json:"order_id"`
	OrderType  string          `json:"order_type"`
	Status     string          `json:"status"`
	GuestCount int             `json:"guest_count"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	BalanceDue decimal.Decimal `json:"balance_due"`
	CreatedAt  time.Time       `json:"created_at"`
}
