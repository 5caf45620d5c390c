package queries

import (
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"
	"tableside/internal/pkg/guard"
)

var ErrGetHoldSummaryQueryIsNotConstructed = errors.New(
	"GetHoldSummaryQuery must be created via NewGetHoldSummaryQuery constructor",
)

// GetHoldSummaryQuery lists the lines of an order currently held back from
// the kitchen. Expo screens poll this to see what is waiting to fire.
type GetHoldSummaryQuery struct {
	guard guard.ConstructorGuard

	orgID   string
	siteID  string
	orderID kernel.UUID
}

// NewGetHoldSummaryQuery creates a query for an order's held lines.
func NewGetHoldSummaryQuery(orgID, siteID string, orderID kernel.UUID) (GetHoldSummaryQuery, error) {
	var err error
	if orgID == "" {
		err = errors.Join(err, errs.NewValidationError("orgId"))
	}
	if siteID == "" {
		err = errors.Join(err, errs.NewValidationError("siteId"))
	}
	if vErr := orderID.Validate(); vErr != nil {
		err = errors.Join(err, vErr)
	}
	if err != nil {
		return GetHoldSummaryQuery{}, err
	}

	return GetHoldSummaryQuery{
		guard:   guard.NewConstructorGuard(),
		orgID:   orgID,
		siteID:  siteID,
		orderID: orderID,
	}, nil
}

// OrgID returns the organization scope of the query.
func (q GetHoldSummaryQuery) OrgID() string { return q.orgID }

// SiteID returns the site scope of the query.
func (q GetHoldSummaryQuery) SiteID() string { return q.siteID }

// OrderID returns the queried order's identifier.
func (q GetHoldSummaryQuery) OrderID() kernel.UUID { return q.orderID }

// Validate ensures the query was created through the constructor.
func (q GetHoldSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetHoldSummaryQueryIsNotConstructed)
}

// GetHoldSummaryQueryResponse lists the held lines of one order.
type GetHoldSummaryQueryResponse struct {
	OrderID   string         `json:"order_id"`
	HeldCount int            `json:"held_count"`
	Items     []HeldItemView `json:"items"`
}

// HeldItemView is one held line in the hold summary.
type HeldItemView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Seat     int    `json:"seat,omitempty"`
	Course   int    `json:"course,omitempty"`
}
