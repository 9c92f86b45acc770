// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
//
// An order is stored as one row in "orders" plus one row per history entry in
// "order_status_history". The orders row carries the current status and
// version so listings and the version guard never need the history.
package orderrepo

import (
	"time"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by status and creation time for the pending-order listing.
type OrderDTO struct {
	ID            string             `gorm:"type:varchar(64);primaryKey"`
	CustomerID    string             `gorm:"type:varchar(64);not null;index"`
	TotalAmount   string             `gorm:"type:numeric(14,2);not null"`
	PaymentMethod string             `gorm:"type:varchar(32);not null"`
	TrackingCode  *string            `gorm:"type:varchar(128)"`
	Status        int                `gorm:"not null;index:idx_orders_status_created,priority:1"`
	Version       int                `gorm:"not null"`
	CreatedAt     time.Time          `gorm:"not null;autoCreateTime:false;index:idx_orders_status_created,priority:2"`
	UpdatedAt     time.Time          `gorm:"not null;autoUpdateTime:false"`
	History       []StatusHistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// StatusHistoryDTO is one entry of an order's append-only status history.
// Position is the zero-based index in the history, so position+1 is the order
// version that entry produced.
type StatusHistoryDTO struct {
	OrderID   string    `gorm:"type:varchar(64);primaryKey"`
	Position  int       `gorm:"primaryKey;autoIncrement:false"`
	Status    int       `gorm:"not null"`
	ActorRole string    `gorm:"type:varchar(16);not null"`
	At        time.Time `gorm:"not null"`
}

// TableName specifies the database table name for history entries.
func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

// fromDomain converts an order domain aggregate to its database representation,
// including the full history.
func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:            o.ID().String(),
		CustomerID:    o.CustomerID(),
		TotalAmount:   o.TotalAmount().String(),
		PaymentMethod: o.PaymentMethod().String(),
		TrackingCode:  o.TrackingCode(),
		Status:        int(o.Status()),
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
		History:       historyFromDomain(o.ID().String(), o.History(), 0),
	}
}

// historyFromDomain maps entries starting at position from.
func historyFromDomain(orderID string, history []order.HistoryEntry, from int) []StatusHistoryDTO {
	if from >= len(history) {
		return nil
	}

	dtos := make([]StatusHistoryDTO, 0, len(history)-from)
	for i := from; i < len(history); i++ {
		h := history[i]
		dtos = append(dtos, StatusHistoryDTO{
			OrderID:   orderID,
			Position:  i,
			Status:    int(h.Status()),
			ActorRole: h.ActorRole().String(),
			At:        h.At(),
		})
	}
	return dtos
}

// toDomain converts a database DTO to an order domain aggregate.
// RestoreOrder re-checks the history against the legality graph, so a row
// edited by hand into an impossible state fails to load.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.OrderIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	total, err := kernel.MoneyFromString(dto.TotalAmount)
	if err != nil {
		return nil, err
	}

	method, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, h := range dto.History {
		role, roleErr := identity.ParseRole(h.ActorRole)
		if roleErr != nil {
			return nil, roleErr
		}
		history = append(history, order.NewHistoryEntry(order.Status(h.Status), h.At.UTC(), role))
	}

	return order.RestoreOrder(id, dto.CustomerID, total, method, dto.TrackingCode, history, dto.Version)
}
