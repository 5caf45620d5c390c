// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
//
// The aggregate is stored as one row per order: scalar columns for the
// queryable fields and totals, JSONB documents for the owned collections
// (lines, payments, discounts, charges, events). The aggregate is always
// loaded and saved whole, so the collections never need joins.
package orderrepo

import (
	"encoding/json"
	"time"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	OrgID   string    `gorm:"primaryKey;column:org_id"`
	SiteID  string    `gorm:"primaryKey;column:site_id"`
	OrderID uuid.UUID `gorm:"primaryKey;type:uuid;column:order_id"`

	OrderType  string `gorm:"column:order_type"`
	Status     string `gorm:"index"`
	GuestCount int

	Lines          datatypes.JSON
	Discounts      datatypes.JSON
	Payments       datatypes.JSON
	ServiceCharges datatypes.JSON
	Events         datatypes.JSON
	MergedFrom     datatypes.JSON

	Subtotal           decimal.Decimal `gorm:"type:numeric(12,2)"`
	DiscountTotal      decimal.Decimal `gorm:"type:numeric(12,2)"`
	TaxTotal           decimal.Decimal `gorm:"type:numeric(12,2)"`
	ServiceChargeTotal decimal.Decimal `gorm:"type:numeric(12,2)"`
	GrandTotal         decimal.Decimal `gorm:"type:numeric(12,2)"`
	PaidAmount         decimal.Decimal `gorm:"type:numeric(12,2)"`
	TipTotal           decimal.Decimal `gorm:"type:numeric(12,2)"`
	BalanceDue         decimal.Decimal `gorm:"type:numeric(12,2)"`

	ClosedAt   *time.Time
	VoidedAt   *time.Time
	VoidReason string
	DrainedBy  *string

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// JSONB document shapes. The queries package reads the same documents with
// matching field names, so tag changes here are wire-format changes.
type (
	lineDoc struct {
		ID             string        `json:"id"`
		MenuItemRef    string        `json:"menu_item_ref,omitempty"`
		Name           string        `json:"name"`
		Quantity       int           `json:"quantity"`
		UnitPrice      string        `json:"unit_price"`
		OriginalPrice  *string       `json:"original_price,omitempty"`
		OverrideReason string        `json:"override_reason,omitempty"`
		TaxRate        string        `json:"tax_rate"`
		Modifiers      []modifierDoc `json:"modifiers,omitempty"`
		Seat           int           `json:"seat,omitempty"`
		Course         int           `json:"course,omitempty"`
		Discount       string        `json:"discount"`
		DiscountReason string        `json:"discount_reason,omitempty"`
		Status         string        `json:"status"`
	}

	modifierDoc struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Price    string `json:"price"`
		Quantity int    `json:"quantity"`
	}

	discountDoc struct {
		Description string `json:"description"`
		Type        string `json:"type"`
		Value       string `json:"value"`
		AppliedBy   string `json:"applied_by"`
	}

	paymentDoc struct {
		ID         string    `json:"id"`
		Amount     string    `json:"amount"`
		Tip        string    `json:"tip"`
		Method     string    `json:"method"`
		RecordedAt time.Time `json:"recorded_at"`
	}

	chargeDoc struct {
		Name    string `json:"name"`
		Amount  string `json:"amount"`
		Taxable bool   `json:"taxable"`
	}

	eventDoc struct {
		Seq        int64     `json:"seq"`
		Name       string    `json:"name"`
		Actor      string    `json:"actor,omitempty"`
		Detail     string    `json:"detail,omitempty"`
		OccurredAt time.Time `json:"occurred_at"`
	}
)

// fromDomain converts an order domain aggregate to its database
// representation. Totals are denormalized for the read side; the domain
// recomputes them on load regardless.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	lines := make([]lineDoc, 0, len(aggregate.Lines()))
	for _, l := range aggregate.Lines() {
		lines = append(lines, lineFromDomain(l))
	}

	discounts := make([]discountDoc, 0, len(aggregate.Discounts()))
	for _, d := range aggregate.Discounts() {
		discounts = append(discounts, discountDoc{
			Description: d.Description(),
			Type:        string(d.Type()),
			Value:       d.Value().String(),
			AppliedBy:   d.AppliedBy(),
		})
	}

	payments := make([]paymentDoc, 0, len(aggregate.Payments()))
	for _, p := range aggregate.Payments() {
		payments = append(payments, paymentDoc{
			ID:         p.ID().String(),
			Amount:     p.Amount().String(),
			Tip:        p.Tip().String(),
			Method:     p.Method(),
			RecordedAt: p.RecordedAt(),
		})
	}

	charges := make([]chargeDoc, 0, len(aggregate.ServiceCharges()))
	for _, c := range aggregate.ServiceCharges() {
		charges = append(charges, chargeDoc{
			Name:    c.Name(),
			Amount:  c.Amount().String(),
			Taxable: c.IsTaxable(),
		})
	}

	events := make([]eventDoc, 0, len(aggregate.Events()))
	for _, e := range aggregate.Events() {
		events = append(events, eventDoc{
			Seq:        e.Seq(),
			Name:       e.Name(),
			Actor:      e.Actor(),
			Detail:     e.Detail(),
			OccurredAt: e.OccurredAt(),
		})
	}

	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return OrderDTO{}, err
	}
	discountsJSON, err := json.Marshal(discounts)
	if err != nil {
		return OrderDTO{}, err
	}
	paymentsJSON, err := json.Marshal(payments)
	if err != nil {
		return OrderDTO{}, err
	}
	chargesJSON, err := json.Marshal(charges)
	if err != nil {
		return OrderDTO{}, err
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return OrderDTO{}, err
	}
	mergedFromJSON, err := json.Marshal(aggregate.MergedFrom())
	if err != nil {
		return OrderDTO{}, err
	}

	var drainedBy *string
	if ref := aggregate.DrainedBy(); ref != nil {
		key := ref.Key()
		drainedBy = &key
	}

	totals := aggregate.Totals()
	return OrderDTO{
		OrgID:   aggregate.Ref().OrgID(),
		SiteID:  aggregate.Ref().SiteID(),
		OrderID: aggregate.Ref().OrderID().Bytes(),

		OrderType:  string(aggregate.Type()),
		Status:     aggregate.Status().String(),
		GuestCount: aggregate.GuestCount(),

		Lines:          datatypes.JSON(linesJSON),
		Discounts:      datatypes.JSON(discountsJSON),
		Payments:       datatypes.JSON(paymentsJSON),
		ServiceCharges: datatypes.JSON(chargesJSON),
		Events:         datatypes.JSON(eventsJSON),
		MergedFrom:     datatypes.JSON(mergedFromJSON),

		Subtotal:           totals.Subtotal().Decimal(),
		DiscountTotal:      totals.DiscountTotal().Decimal(),
		TaxTotal:           totals.TaxTotal().Decimal(),
		ServiceChargeTotal: totals.ServiceChargeTotal().Decimal(),
		GrandTotal:         totals.GrandTotal().Decimal(),
		PaidAmount:         totals.PaidAmount().Decimal(),
		TipTotal:           totals.TipTotal().Decimal(),
		BalanceDue:         totals.BalanceDue().Decimal(),

		ClosedAt:   aggregate.ClosedAt(),
		VoidedAt:   aggregate.VoidedAt(),
		VoidReason: aggregate.VoidReason(),
		DrainedBy:  drainedBy,
	}, nil
}

func lineFromDomain(l *order.Line) lineDoc {
	var originalPrice *string
	if p := l.OriginalPrice(); p != nil {
		s := p.String()
		originalPrice = &s
	}

	modifiers := make([]modifierDoc, 0, len(l.Modifiers()))
	for _, m := range l.Modifiers() {
		modifiers = append(modifiers, modifierDoc{
			ID:       m.ID().String(),
			Name:     m.Name(),
			Price:    m.Price().String(),
			Quantity: m.Quantity(),
		})
	}

	return lineDoc{
		ID:             l.ID().String(),
		MenuItemRef:    l.MenuItemRef(),
		Name:           l.Name(),
		Quantity:       l.Quantity(),
		UnitPrice:      l.UnitPrice().String(),
		OriginalPrice:  originalPrice,
		OverrideReason: l.OverrideReason(),
		TaxRate:        l.TaxRate().String(),
		Modifiers:      modifiers,
		Seat:           l.Seat(),
		Course:         l.Course(),
		Discount:       l.Discount().String(),
		DiscountReason: l.DiscountReason(),
		Status:         l.Status().String(),
	}
}

// toDomain converts a database DTO back to an order domain aggregate using
// RestoreOrder. Totals come back from recomputation, not from the stored
// columns.
func toDomain(dto OrderDTO) (*order.Order, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	ref, err := kernel.NewOrderRef(dto.OrgID, dto.SiteID, orderID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	orderType, err := order.ParseType(dto.OrderType)
	if err != nil {
		return nil, err
	}

	lines, err := linesToDomain(dto.Lines)
	if err != nil {
		return nil, err
	}
	discounts, err := discountsToDomain(dto.Discounts)
	if err != nil {
		return nil, err
	}
	payments, err := paymentsToDomain(dto.Payments)
	if err != nil {
		return nil, err
	}
	charges, err := chargesToDomain(dto.ServiceCharges)
	if err != nil {
		return nil, err
	}
	events, err := eventsToDomain(dto.Events)
	if err != nil {
		return nil, err
	}

	var mergedFrom []string
	if len(dto.MergedFrom) > 0 {
		if err = json.Unmarshal(dto.MergedFrom, &mergedFrom); err != nil {
			return nil, err
		}
	}

	var drainedBy *kernel.OrderRef
	if dto.DrainedBy != nil {
		parsed, refErr := kernel.OrderRefFromKey(*dto.DrainedBy)
		if refErr != nil {
			return nil, refErr
		}
		drainedBy = &parsed
	}

	return order.RestoreOrder(
		ref, orderType, status, dto.GuestCount,
		lines, discounts, payments, charges,
		dto.ClosedAt, dto.VoidedAt, dto.VoidReason,
		drainedBy, mergedFrom, events,
	)
}

func linesToDomain(raw datatypes.JSON) ([]*order.Line, error) {
	var docs []lineDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	lines := make([]*order.Line, 0, len(docs))
	for _, doc := range docs {
		line, err := lineToDomain(doc)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func lineToDomain(doc lineDoc) (*order.Line, error) {
	id, err := kernel.UUIDFromString(doc.ID)
	if err != nil {
		return nil, err
	}
	unitPrice, err := kernel.NewMoneyFromString(doc.UnitPrice)
	if err != nil {
		return nil, err
	}
	discount, err := kernel.NewMoneyFromString(doc.Discount)
	if err != nil {
		return nil, err
	}
	taxRate, err := decimal.NewFromString(doc.TaxRate)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseLineStatus(doc.Status)
	if err != nil {
		return nil, err
	}

	var originalPrice *kernel.Money
	if doc.OriginalPrice != nil {
		p, priceErr := kernel.NewMoneyFromString(*doc.OriginalPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		originalPrice = &p
	}

	modifiers := make([]order.Modifier, 0, len(doc.Modifiers))
	for _, m := range doc.Modifiers {
		modifierID, modErr := kernel.UUIDFromString(m.ID)
		if modErr != nil {
			return nil, modErr
		}
		price, modErr := kernel.NewMoneyFromString(m.Price)
		if modErr != nil {
			return nil, modErr
		}
		modifiers = append(modifiers, order.RestoreModifier(modifierID, m.Name, price, m.Quantity))
	}

	return order.RestoreLine(
		id, doc.MenuItemRef, doc.Name, doc.Quantity,
		unitPrice, originalPrice, doc.OverrideReason,
		taxRate, modifiers, doc.Seat, doc.Course,
		discount, doc.DiscountReason, status,
	)
}

func discountsToDomain(raw datatypes.JSON) ([]order.OrderDiscount, error) {
	var docs []discountDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	discounts := make([]order.OrderDiscount, 0, len(docs))
	for _, doc := range docs {
		dtype, err := order.ParseDiscountType(doc.Type)
		if err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(doc.Value)
		if err != nil {
			return nil, err
		}
		discount, err := order.NewOrderDiscount(doc.Description, dtype, value, doc.AppliedBy)
		if err != nil {
			return nil, err
		}
		discounts = append(discounts, discount)
	}
	return discounts, nil
}

func paymentsToDomain(raw datatypes.JSON) ([]order.Payment, error) {
	var docs []paymentDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	payments := make([]order.Payment, 0, len(docs))
	for _, doc := range docs {
		id, err := kernel.UUIDFromString(doc.ID)
		if err != nil {
			return nil, err
		}
		amount, err := kernel.NewMoneyFromString(doc.Amount)
		if err != nil {
			return nil, err
		}
		tip, err := kernel.NewMoneyFromString(doc.Tip)
		if err != nil {
			return nil, err
		}
		payments = append(payments, order.RestorePayment(id, amount, tip, doc.Method, doc.RecordedAt))
	}
	return payments, nil
}

func chargesToDomain(raw datatypes.JSON) ([]order.ServiceCharge, error) {
	var docs []chargeDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	charges := make([]order.ServiceCharge, 0, len(docs))
	for _, doc := range docs {
		amount, err := kernel.NewMoneyFromString(doc.Amount)
		if err != nil {
			return nil, err
		}
		charge, err := order.NewServiceCharge(doc.Name, amount, doc.Taxable)
		if err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}
	return charges, nil
}

func eventsToDomain(raw datatypes.JSON) ([]order.Event, error) {
	var docs []eventDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	events := make([]order.Event, 0, len(docs))
	for _, doc := range docs {
		events = append(events, order.RestoreEvent(doc.Seq, doc.Name, doc.Actor, doc.Detail, doc.OccurredAt))
	}
	return events, nil
}
