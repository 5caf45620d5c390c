package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tableside/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetTotalsQueryHandler reads the denormalized totals columns of one order.
type GetTotalsQueryHandler struct {
	db *gorm.DB
}

// NewGetTotalsQueryHandler creates a handler for totals queries.
func NewGetTotalsQueryHandler(db *gorm.DB) GetTotalsQueryHandler {
	return GetTotalsQueryHandler{db: db}
}

// Handle executes the query and returns the order's totals.
func (h GetTotalsQueryHandler) Handle(
	ctx context.Context,
	query GetTotalsQuery,
) (GetTotalsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTotalsQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			subtotal, discount_total, tax_total, service_charge_total,
			grand_total, paid_amount, tip_total, balance_due
		FROM orders
		WHERE org_id = ? AND site_id = ? AND order_id = ?
	`, query.OrgID(), query.SiteID(), query.OrderID().Bytes()).Row()

	resp := GetTotalsQueryResponse{OrderID: query.OrderID().String()}
	err := row.Scan(
		&resp.Status,
		&resp.Totals.Subtotal, &resp.Totals.DiscountTotal, &resp.Totals.TaxTotal,
		&resp.Totals.ServiceChargeTotal, &resp.Totals.GrandTotal,
		&resp.Totals.PaidAmount, &resp.Totals.TipTotal, &resp.Totals.BalanceDue,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetTotalsQueryResponse{}, errs.NewNotFoundErrorWithCause(
				"order", query.OrderID().String(), err)
		}
		return GetTotalsQueryResponse{}, fmt.Errorf("failed to read order totals: %w", err)
	}

	return resp, nil
}
