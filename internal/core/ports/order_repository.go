// Package ports defines repository interfaces for the order domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// scoped by organization and site.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its scoped reference.
	// Returns the complete order with all lines, payments, charges and
	// its event log.
	Get(ctx context.Context, ref kernel.OrderRef) (*order.Order, error)

	// GetAllActive retrieves all orders of a site that are still Open or
	// Paid. Used by the open-orders board.
	GetAllActive(ctx context.Context, orgID, siteID string) ([]*order.Order, error)

	// GetAllActiveOlderThan retrieves active orders whose last recorded
	// event is older than the cutoff. Used by the auto-close job to find
	// abandoned orders.
	GetAllActiveOlderThan(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
