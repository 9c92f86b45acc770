// Package services provides domain services that span more than one domain
// type in the storefront. It implements decisions that don't naturally belong
// to a single aggregate root.
//
// The package includes:
//   - AccessPolicy: the single decision point for who may read an order, take
//     a transition edge, create orders or subscribe to operator notifications
//
// The same AccessPolicy instance is shared by the REST handlers, the transition
// engine and the notification handshake, so role checks are never repeated ad
// hoc per endpoint.
package services
