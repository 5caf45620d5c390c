// Package order provides the domain model for the restaurant order
// aggregate: the single-writer actor owning one order's full state and
// business rules.
//
// The package includes:
//   - Order: the aggregate root managing lines, discounts, payments,
//     service charges, kitchen routing, lifecycle and merges
//   - Status / LineStatus: state machines for the order lifecycle and the
//     per-line kitchen-routing state
//   - Totals and the pricing engine: a pure recomputation of all derived
//     monetary values after every mutation
//   - Event: the append-only audit log with monotonic sequence numbers
//
// Key business rules:
//   - Subtotal ignores voided lines and is computed from current unit
//     prices, independent of any discount
//   - Tax and discounts are independent axes: per-line tax applies to the
//     gross line total, never the discounted one
//   - Taxable service charges are taxed at the covers-weighted average of
//     the lines' tax rates
//   - The order becomes Paid exactly when the balance due reaches zero and
//     reverts to Open when a payment removal leaves a positive balance
//   - Merging drains a source order's lines and payments into a target and
//     closes the source, as a best-effort two-step saga (not ACID)
//
// The package follows Domain-Driven Design principles, providing rich
// domain behavior, encapsulation, and validation to ensure business rules
// are enforced.
package order
