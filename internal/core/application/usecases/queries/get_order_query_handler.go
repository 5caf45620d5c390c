package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tableside/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves a full order snapshot from the database.
// Reads the denormalized row directly; the aggregate is never rehydrated.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order snapshot queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query and returns the order snapshot, or a not-found
// error when no such order exists in the org/site scope.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id, org_id, site_id, order_type, status, guest_count,
			lines, discounts, payments, service_charges, events, merged_from,
			subtotal, discount_total, tax_total, service_charge_total,
			grand_total, paid_amount, tip_total, balance_due,
			closed_at, voided_at, void_reason, drained_by,
			created_at, updated_at
		FROM orders
		WHERE org_id = ? AND site_id = ? AND order_id = ?
	`, query.OrgID(), query.SiteID(), query.OrderID().Bytes()).Row()

	var (
		resp       GetOrderQueryResponse
		orderID    uuid.UUID
		rawLines   []byte
		rawDisc    []byte
		rawPay     []byte
		rawCharges []byte
		rawEvents  []byte
		rawMerged  []byte
		closedAt   sql.NullTime
		voidedAt   sql.NullTime
		drainedBy  sql.NullString
	)

	err := row.Scan(
		&orderID, &resp.OrgID, &resp.SiteID, &resp.OrderType, &resp.Status, &resp.GuestCount,
		&rawLines, &rawDisc, &rawPay, &rawCharges, &rawEvents, &rawMerged,
		&resp.Totals.Subtotal, &resp.Totals.DiscountTotal, &resp.Totals.TaxTotal,
		&resp.Totals.ServiceChargeTotal, &resp.Totals.GrandTotal,
		&resp.Totals.PaidAmount, &resp.Totals.TipTotal, &resp.Totals.BalanceDue,
		&closedAt, &voidedAt, &resp.VoidReason, &drainedBy,
		&resp.CreatedAt, &resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewNotFoundErrorWithCause(
				"order", query.OrderID().String(), err)
		}
		return GetOrderQueryResponse{}, fmt.Errorf("failed to read order snapshot: %w", err)
	}

	resp.OrderID = orderID.String()
	if closedAt.Valid {
		t := closedAt.Time
		resp.ClosedAt = &t
	}
	if voidedAt.Valid {
		t := voidedAt.Time
		resp.VoidedAt = &t
	}
	if drainedBy.Valid {
		s := drainedBy.String
		resp.DrainedBy = &s
	}

	if err = unmarshalDocs(rawLines, &resp.Lines); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err = unmarshalDocs(rawDisc, &resp.Discounts); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err = unmarshalDocs(rawPay, &resp.Payments); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err = unmarshalDocs(rawCharges, &resp.ServiceCharges); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err = unmarshalDocs(rawEvents, &resp.Events); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if err = unmarshalDocs(rawMerged, &resp.MergedFrom); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func unmarshalDocs(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode order document: %w", err)
	}
	return nil
}
