package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the inventory domain

// ItemConsumedEvent is raised when units of a batch are consumed
type ItemConsumedEvent struct {
	ItemID     uuid.UUID
	Name       string
	FullyUsed  bool
	Remaining  int
	ConsumedAt time.Time
}

func (e ItemConsumedEvent) EventName() string {
	return "inventory.item.consumed"
}

func (e ItemConsumedEvent) OccurredAt() time.Time {
	return e.ConsumedAt
}

// ItemExpiryRevisedEvent is raised when an operator corrects an expiry date
type ItemExpiryRevisedEvent struct {
	ItemID    uuid.UUID
	OldDate   time.Time
	NewDate   time.Time
	RevisedAt time.Time
}

func (e ItemExpiryRevisedEvent) EventName() string {
	return "inventory.item.expiry_revised"
}

func (e ItemExpiryRevisedEvent) OccurredAt() time.Time {
	return e.RevisedAt
}

// ItemRenamedEvent is raised when a translation pass replaces a display name
type ItemRenamedEvent struct {
	ItemID    uuid.UUID
	OldName   string
	NewName   string
	RenamedAt time.Time
}

func (e ItemRenamedEvent) EventName() string {
	return "inventory.item.renamed"
}

func (e ItemRenamedEvent) OccurredAt() time.Time {
	return e.RenamedAt
}
