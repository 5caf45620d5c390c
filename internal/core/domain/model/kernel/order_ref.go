package kernel

import (
	"fmt"
	"strings"

	"tableside/internal/pkg/errs"
)

// OrderRef is the composite address of one order actor: organization, site
// and order id. All commands and queries against an order are routed by its
// OrderRef, and each ref maps to exactly one serialization domain.
//
// The zero value is invalid; construct through NewOrderRef.
type OrderRef struct {
	orgID   string
	siteID  string
	orderID UUID
}

// NewOrderRef creates an order reference with validation: organization and
// site identifiers must be non-empty and the order id must be constructed.
func NewOrderRef(orgID, siteID string, orderID UUID) (OrderRef, error) {
	if orgID == "" {
		return OrderRef{}, errs.NewValidationError("orgId")
	}
	if siteID == "" {
		return OrderRef{}, errs.NewValidationError("siteId")
	}
	if err := orderID.Validate(); err != nil {
		return OrderRef{}, err
	}

	return OrderRef{orgID: orgID, siteID: siteID, orderID: orderID}, nil
}

// OrderRefFromKey parses the "org/site/orderId" form produced by Key.
// Identifiers must not contain slashes for the round trip to hold.
func OrderRefFromKey(key string) (OrderRef, error) {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 {
		return OrderRef{}, errs.NewValidationErrorWithCause("orderRefKey",
			fmt.Errorf("%q is not of the form org/site/orderId", key))
	}

	orderID, err := UUIDFromString(parts[2])
	if err != nil {
		return OrderRef{}, err
	}
	return NewOrderRef(parts[0], parts[1], orderID)
}

// OrgID returns the organization identifier.
func (r OrderRef) OrgID() string {
	return r.orgID
}

// SiteID returns the site (restaurant location) identifier.
func (r OrderRef) SiteID() string {
	return r.siteID
}

// OrderID returns the order's unique identifier.
func (r OrderRef) OrderID() UUID {
	return r.orderID
}

// IsEqual reports whether two refs address the same order actor.
func (r OrderRef) IsEqual(other OrderRef) bool {
	return r.orgID == other.orgID && r.siteID == other.siteID && r.orderID.IsEqual(other.orderID)
}

// Key returns a stable string form used as a map key by the actor
// dispatcher and as the merge-source tag in the event log.
func (r OrderRef) Key() string {
	return fmt.Sprintf("%s/%s/%s", r.orgID, r.siteID, r.orderID)
}

// String implements fmt.Stringer.
func (r OrderRef) String() string {
	return r.Key()
}

// Validate checks that the ref was properly constructed.
func (r OrderRef) Validate() error {
	if r.orgID == "" || r.siteID == "" {
		return errs.NewValidationError("OrderRef must be created via NewOrderRef")
	}
	return r.orderID.Validate()
}
