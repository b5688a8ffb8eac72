package models

import "time"

// Connection is a request from Requester to Receiver that becomes mutual once accepted.
// PairLow/PairHigh hold the normalized unordered pair and carry the uniqueness constraint.
type Connection struct {
	ID          uint             `json:"id" gorm:"primaryKey" bson:"_id"`
	RequesterID uint             `json:"requesterId" gorm:"index;not null" bson:"requesterId"`
	ReceiverID  uint             `json:"receiverId" gorm:"index;not null" bson:"receiverId"`
	Status      ConnectionStatus `json:"status" gorm:"type:varchar(20);default:'pending';not null" bson:"status"`
	Message     *string          `json:"message,omitempty" gorm:"size:500" bson:"message,omitempty"`
	PairLow     uint             `json:"-" gorm:"uniqueIndex:idx_connection_pair;not null" bson:"pairLow"`
	PairHigh    uint             `json:"-" gorm:"uniqueIndex:idx_connection_pair;not null" bson:"pairHigh"`
	CreatedAt   time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt" bson:"updatedAt"`
}

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusDeclined ConnectionStatus = "declined"
)

// Valid reports whether s is one of the stored connection states.
func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionStatusPending, ConnectionStatusAccepted, ConnectionStatusDeclined:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s ConnectionStatus) Terminal() bool {
	return s == ConnectionStatusAccepted || s == ConnectionStatusDeclined
}

// PairKey normalizes two user ids into (min, max).
func PairKey(a, b uint) (uint, uint) {
	if a <= b {
		return a, b
	}
	return b, a
}

// SetPair fills PairLow/PairHigh from the requester and receiver.
func (c *Connection) SetPair() {
	c.PairLow, c.PairHigh = PairKey(c.RequesterID, c.ReceiverID)
}

// Involves reports whether the connection is between a and b, in either direction.
func (c *Connection) Involves(a, b uint) bool {
	return (c.RequesterID == a && c.ReceiverID == b) || (c.RequesterID == b && c.ReceiverID == a)
}

// Peer returns the other party of the connection as seen by userID.
func (c *Connection) Peer(userID uint) uint {
	if c.RequesterID == userID {
		return c.ReceiverID
	}
	return c.RequesterID
}
