package queries

import (
	"context"
	"fmt"

	"tableside/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenOrdersQueryHandler retrieves the active orders of a site.
// Results are sorted by creation time so the oldest tabs surface first.
type GetOpenOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenOrdersQueryHandler creates a handler for active order listings.
func NewGetOpenOrdersQueryHandler(db *gorm.DB) GetOpenOrdersQueryHandler {
	return GetOpenOrdersQueryHandler{db: db}
}

// Handle executes the query and returns all open and paid orders of the site.
func (h GetOpenOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOpenOrdersQuery,
) ([]GetOpenOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetOpenOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id, order_type, status, guest_count,
			grand_total, balance_due, created_at
		FROM orders
		WHERE org_id = ? AND site_id = ? AND status IN (?, ?)
		ORDER BY created_at
	`, query.OrgID(), query.SiteID(),
		order.Open.String(), order.Paid.String()).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to list active orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOpenOrdersQueryResponse
		var orderID uuid.UUID

		err = rows.Scan(
			&orderID, &resp.OrderType, &resp.Status, &resp.GuestCount,
			&resp.GrandTotal, &resp.BalanceDue, &resp.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan active order row: %w", err)
		}

		resp.OrderID = orderID.String()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
