// Package kernel provides core domain primitives shared by the order and
// notification models.
//
// The package includes:
//   - OrderID: the opaque identifier of an order
//   - Money: a non-negative decimal amount backed by govalues/decimal
//
// These primitives are immutable and safe for concurrent use.
package kernel
