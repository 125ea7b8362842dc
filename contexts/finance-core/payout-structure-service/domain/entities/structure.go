package entities

import "time"

// Structure is one operator editing session over a payout table.
type Structure struct {
	StructureID string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s Structure) OwnedBy(operatorID string) bool {
	return s.OwnerID != "" && s.OwnerID == operatorID
}
