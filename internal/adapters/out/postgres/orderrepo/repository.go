package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/core/ports"
	"tableside/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker abstracts the unit of work's change tracking, letting the
// repository register loaded aggregates without depending on the concrete
// unit of work implementation.
type aggregateTracker interface {
	TrackAggregate(aggregate any)
}

// Repository persists order aggregates in PostgreSQL via GORM.
// Every aggregate loaded through Get is registered with the tracker so the
// surrounding unit of work can validate it before commit.
type Repository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewRepository creates a repository bound to the given database handle and
// tracker. The handle may be a transaction; the caller owns its lifecycle.
func NewRepository(db *gorm.DB, tracker aggregateTracker) *Repository {
	return &Repository{db: db, tracker: tracker}
}

// Add inserts a new order row. A duplicate primary key surfaces as an
// already-exists error so callers can treat repeated opens as idempotency
// violations rather than storage faults.
func (r *Repository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return fmt.Errorf("failed to map order %s: %w", aggregate.Ref().Key(), err)
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewAlreadyExistsErrorWithCause("order", aggregate.Ref().Key(), err)
		}
		return fmt.Errorf("failed to insert order %s: %w", aggregate.Ref().Key(), err)
	}
	return nil
}

// Update saves the full aggregate state over the existing row.
func (r *Repository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return fmt.Errorf("failed to map order %s: %w", aggregate.Ref().Key(), err)
	}

	result := r.db.WithContext(ctx).
		Where("org_id = ? AND site_id = ? AND order_id = ?", dto.OrgID, dto.SiteID, dto.OrderID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", aggregate.Ref().Key(), result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFoundError("order", aggregate.Ref().Key())
	}
	return nil
}

// Get loads a single order aggregate by its reference.
func (r *Repository) Get(ctx context.Context, ref kernel.OrderRef) (*order.Order, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND site_id = ? AND order_id = ?",
			ref.OrgID(), ref.SiteID(), ref.OrderID().Bytes()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundErrorWithCause("order", ref.Key(), err)
		}
		return nil, fmt.Errorf("failed to load order %s: %w", ref.Key(), err)
	}

	aggregate, err := toDomain(dto)
	if err != nil {
		return nil, fmt.Errorf("failed to restore order %s: %w", ref.Key(), err)
	}

	r.tracker.TrackAggregate(aggregate)
	return aggregate, nil
}

// GetAllActive returns every open or paid order for a site, oldest first.
func (r *Repository) GetAllActive(ctx context.Context, orgID, siteID string) ([]*order.Order, error) {
	if orgID == "" {
		return nil, errs.NewValidationError("orgId")
	}
	if siteID == "" {
		return nil, errs.NewValidationError("siteId")
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND site_id = ? AND status IN ?",
			orgID, siteID, activeStatuses()).
		Order("created_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active orders for %s/%s: %w", orgID, siteID, err)
	}

	return r.restoreAll(dtos)
}

// GetAllActiveOlderThan returns active orders across all sites whose last
// mutation predates the cutoff. Used by the auto-close job.
func (r *Repository) GetAllActiveOlderThan(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", activeStatuses(), cutoff).
		Order("updated_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load stale active orders: %w", err)
	}

	return r.restoreAll(dtos)
}

func (r *Repository) restoreAll(dtos []OrderDTO) ([]*order.Order, error) {
	aggregates := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("failed to restore order %s/%s/%s: %w",
				dto.OrgID, dto.SiteID, dto.OrderID, err)
		}
		r.tracker.TrackAggregate(aggregate)
		aggregates = append(aggregates, aggregate)
	}
	return aggregates, nil
}

func activeStatuses() []string {
	return []string{order.Open.String(), order.Paid.String()}
}

var _ ports.OrderRepository = (*Repository)(nil)
