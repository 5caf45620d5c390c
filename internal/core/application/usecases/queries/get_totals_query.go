package queries

import (
	"errors"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"
	"tableside/internal/pkg/guard"
)

var ErrGetTotalsQueryIsNotConstructed = errors.New(
	"GetTotalsQuery must be created via NewGetTotalsQuery constructor",
)

// GetTotalsQuery retrieves only the pricing totals of an order. Cheaper than
// a full snapshot for check presentation and split-payment screens.
type GetTotalsQuery struct {
	guard guard.ConstructorGuard

	orgID   string
	siteID  string
	orderID kernel.UUID
}

// NewGetTotalsQuery creates a query for an order's totals.
func NewGetTotalsQuery(orgID, siteID string, orderID kernel.UUID) (GetTotalsQuery, error) {
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
		return GetTotalsQuery{}, err
	}

	return GetTotalsQuery{
		guard:   guard.NewConstructorGuard(),
		orgID:   orgID,
		siteID:  siteID,
		orderID: orderID,
	}, nil
}

// OrgID returns the organization scope of the query.
func (q GetTotalsQuery) OrgID() string { return q.orgID }

// SiteID returns the site scope of the query.
func (q GetTotalsQuery) SiteID() string { return q.siteID }

// OrderID returns the queried order's identifier.
func (q GetTotalsQuery) OrderID() kernel.UUID { return q.orderID }

// Validate ensures the query was created through the constructor.
func (q GetTotalsQuery) Validate() error {
	return q.guard.Validate(ErrGetTotalsQueryIsNotConstructed)
}

// GetTotalsQueryResponse carries an order's totals plus its status, which
// payment screens need to decide whether the check is settled.
type GetTotalsQueryResponse struct {
	OrderID string     `json:"order_id"`
	Status  string     `json:"status"`
	Totals  TotalsView `json:"totals"`
}
