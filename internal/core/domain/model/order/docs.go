// Package order provides the Order aggregate and the order lifecycle state
// machine for the storefront.
//
// The package includes:
//   - Order: the aggregate root holding identity, totals, payment method and the
//     append-only status history that doubles as the concurrency version
//   - Status: the lifecycle states PENDING, PROCESSING, SHIPPED, DELIVERED, CANCELLED
//   - Edge / EdgeRule / LookupEdge: the legality graph and the roles allowed per edge
//   - PaymentMethod: COD or BANK_TRANSFER
//
// Key business rules:
//   - Every order starts PENDING with one history entry (version 1)
//   - Only edges of the legality graph may be recorded
//   - DELIVERED and CANCELLED are terminal
//   - version always equals the number of history entries
//
// Authorization (who may take which edge) is decided by services.AccessPolicy
// using the grants attached to each edge; the aggregate enforces legality only.
package order
