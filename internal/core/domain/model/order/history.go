package order

import (
	"time"

	"storefront/internal/core/domain/model/identity"
)

// HistoryEntry records one committed status of an order. Entries are
// append-only: the aggregate never rewrites or removes them.
type HistoryEntry struct {
	status    Status
	at        time.Time
	actorRole identity.Role
}

// NewHistoryEntry builds an entry; it is used when restoring orders from storage.
func NewHistoryEntry(status Status, at time.Time, actorRole identity.Role) HistoryEntry {
	return HistoryEntry{status: status, at: at.UTC(), actorRole: actorRole}
}

func (h HistoryEntry) Status() Status {
	return h.status
}

func (h HistoryEntry) At() time.Time {
	return h.at
}

func (h HistoryEntry) ActorRole() identity.Role {
	return h.actorRole
}
