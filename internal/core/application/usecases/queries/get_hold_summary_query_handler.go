package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetHoldSummaryQueryHandler filters an order's lines down to the held ones.
type GetHoldSummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetHoldSummaryQueryHandler creates a handler for hold summary queries.
func NewGetHoldSummaryQueryHandler(db *gorm.DB) GetHoldSummaryQueryHandler {
	return GetHoldSummaryQueryHandler{db: db}
}

// Handle executes the query and returns the held lines of the order.
func (h GetHoldSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetHoldSummaryQuery,
) (GetHoldSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetHoldSummaryQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT lines
		FROM orders
		WHERE org_id = ? AND site_id = ? AND order_id = ?
	`, query.OrgID(), query.SiteID(), query.OrderID().Bytes()).Row()

	var rawLines []byte
	if err := row.Scan(&rawLines); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetHoldSummaryQueryResponse{}, errs.NewNotFoundErrorWithCause(
				"order", query.OrderID().String(), err)
		}
		return GetHoldSummaryQueryResponse{}, fmt.Errorf("failed to read order lines: %w", err)
	}

	var lines []LineView
	if err := unmarshalDocs(rawLines, &lines); err != nil {
		return GetHoldSummaryQueryResponse{}, err
	}

	resp := GetHoldSummaryQueryResponse{
		OrderID: query.OrderID().String(),
		Items:   make([]HeldItemView, 0),
	}
	for _, line := range lines {
		if line.Status != order.LineHeld.String() {
			continue
		}
		resp.Items = append(resp.Items, HeldItemView{
			ID:       line.ID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Seat:     line.Seat,
			Course:   line.Course,
		})
	}
	resp.HeldCount = len(resp.Items)

	return resp, nil
}
