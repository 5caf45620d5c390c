// Package kernel provides shared value objects used across the domain model:
//
//   - UUID: immutable identifier wrapping github.com/google/uuid
//   - Money: decimal monetary amounts with the system-wide rounding rule
//     (round half away from zero to two decimal places at each derived-total
//     computation)
//   - OrderRef: the composite (organization, site, order id) address of one
//     order actor
//
// Value objects in this package are immutable and safe for concurrent use.
// Zero values are invalid and fail Validate; construct through the provided
// factory functions.
package kernel
