// Package queries contains read operations over the orders store.
// Implements the query side of the CQRS architecture: handlers read
// denormalized rows directly with raw SQL, bypassing the aggregate, so
// dashboards never compete with the per-order command queues.
package queries

import (
	"errors"
	"time"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/pkg/errs"
	"tableside/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full snapshot of a single order: header, lines,
// discounts, payments, service charges, totals and the event log.
type GetOrderQuery struct {
	guard guard.ConstructorGuard

	orgID   string
	siteID  string
	orderID kernel.UUID
}

// NewGetOrderQuery creates a query for a single order snapshot.
func NewGetOrderQuery(orgID, siteID string, orderID kernel.UUID) (GetOrderQuery, error) {
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
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		guard:   guard.NewConstructorGuard(),
		orgID:   orgID,
		siteID:  siteID,
		orderID: orderID,
	}, nil
}

// OrgID returns the organization scope of the query.
func (q GetOrderQuery) OrgID() string { return q.orgID }

// SiteID returns the site scope of the query.
func (q GetOrderQuery) SiteID() string { return q.siteID }

// OrderID returns the queried order's identifier.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryResponse is the full order snapshot returned to API clients.
type GetOrderQueryResponse struct {
	OrderID    string `json:"order_id"`
	OrgID      string `json:"org_id"`
	SiteID     string `json:"site_id"`
	OrderType  string `json:"order_type"`
	Status     string `json:"status"`
	GuestCount int    `json:"guest_count"`

	Lines          []LineView          `json:"lines"`
	Discounts      []DiscountView      `json:"discounts"`
	Payments       []PaymentView       `json:"payments"`
	ServiceCharges []ServiceChargeView `json:"service_charges"`
	Events         []EventView         `json:"events"`
	MergedFrom     []string            `json:"merged_from,omitempty"`

	Totals TotalsView `json:"totals"`

	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	VoidedAt   *time.Time `json:"voided_at,omitempty"`
	VoidReason string     `json:"void_reason,omitempty"`
	DrainedBy  *string    `json:"drained_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View structs mirror the JSONB documents written by the order repository;
// the json tags are the shared wire format between the write and read sides.
type (
	LineView struct {
		ID             string         `json:"id"`
		MenuItemRef    string         `json:"menu_item_ref,omitempty"`
		Name           string         `json:"name"`
		Quantity       int            `json:"quantity"`
		UnitPrice      string         `json:"unit_price"`
		OriginalPrice  *string        `json:"original_price,omitempty"`
		OverrideReason string         `json:"override_reason,omitempty"`
		TaxRate        string         `json:"tax_rate"`
		Modifiers      []ModifierView `json:"modifiers,omitempty"`
		Seat           int            `json:"seat,omitempty"`
		Course         int            `json:"course,omitempty"`
		Discount       string         `json:"discount"`
		DiscountReason string         `json:"discount_reason,omitempty"`
		Status         string         `json:"status"`
	}

	ModifierView struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Price    string `json:"price"`
		Quantity int    `json:"quantity"`
	}

	DiscountView struct {
		Description string `json:"description"`
		Type        string `json:"type"`
		Value       string `json:"value"`
		AppliedBy   string `json:"applied_by"`
	}

	PaymentView struct {
		ID         string    `json:"id"`
		Amount     string    `json:"amount"`
		Tip        string    `json:"tip"`
		Method     string    `json:"method"`
		RecordedAt time.Time `json:"recorded_at"`
	}

	ServiceChargeView struct {
		Name    string `json:"name"`
		Amount  string `json:"amount"`
		Taxable bool   `json:"taxable"`
	}

	EventView struct {
		Seq        int64     `json:"seq"`
		Name       string    `json:"name"`
		Actor      string    `json:"actor,omitempty"`
		Detail     string    `json:"detail,omitempty"`
		OccurredAt time.Time `json:"occurred_at"`
	}

	// TotalsView carries the denormalized pricing totals of an order.
	TotalsView struct {
		Subtotal           decimal.Decimal `json:"subtotal"`
		DiscountTotal      decimal.Decimal `json:"discount_total"`
		TaxTotal           decimal.Decimal `json:"tax_total"`
		ServiceChargeTotal decimal.Decimal `json:"service_charge_total"`
		GrandTotal         decimal.Decimal `json:"grand_total"`
		PaidAmount         decimal.Decimal `json:"paid_amount"`
		TipTotal           decimal.Decimal `json:"tip_total"`
		BalanceDue         decimal.Decimal `json:"balance_due"`
	}
)
