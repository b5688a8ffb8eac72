package models

import "time"

// Message is one direct message between two users.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey" bson:"_id"`
	SenderID   uint      `json:"senderId" gorm:"index:idx_message_pair;not null" bson:"senderId"`
	ReceiverID uint      `json:"receiverId" gorm:"index:idx_message_pair;index;not null" bson:"receiverId"`
	Content    string    `json:"content" gorm:"type:text;not null" bson:"content"`
	IsRead     bool      `json:"isRead" gorm:"not null;default:false" bson:"isRead"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index" bson:"createdAt"`
}

// Peer returns the other party of the message as seen by userID.
func (m *Message) Peer(userID uint) uint {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Involves reports whether userID sent or received the message.
func (m *Message) Involves(userID uint) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// NewerThan orders messages by CreatedAt, breaking ties with the higher id.
func (m *Message) NewerThan(other *Message) bool {
	if m.CreatedAt.Equal(other.CreatedAt) {
		return m.ID > other.ID
	}
	return m.CreatedAt.After(other.CreatedAt)
}
