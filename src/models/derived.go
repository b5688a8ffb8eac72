package models

// Conversation summarizes the viewer's thread with one partner. It is never stored.
type Conversation struct {
	User        User    `json:"user"`
	LastMessage Message `json:"lastMessage"`
	UnreadCount int     `json:"unreadCount"`
}

// RelationshipStatus is the viewer-to-target classification.
type RelationshipStatus string

const (
	RelationshipSelf      RelationshipStatus = "self"
	RelationshipConnected RelationshipStatus = "connected"
	RelationshipPending   RelationshipStatus = "pending"
	RelationshipNone      RelationshipStatus = "none"
)

type RequestDirection string

const (
	DirectionOutgoing RequestDirection = "outgoing"
	DirectionIncoming RequestDirection = "incoming"
)

// Relationship is a RelationshipStatus plus the row that produced it.
// Direction is only set for pending relationships.
type Relationship struct {
	Status       RelationshipStatus `json:"status"`
	Direction    RequestDirection   `json:"direction,omitempty"`
	ConnectionID *uint              `json:"connectionId,omitempty"`
}

// PendingRequest pairs an incoming pending connection with its requester.
type PendingRequest struct {
	Connection Connection `json:"connection"`
	Requester  User       `json:"requester"`
}

// NotificationSummary is what the header badge shows for a user.
type NotificationSummary struct {
	PendingRequests []PendingRequest `json:"pendingRequests"`
	UnreadMessages  int64            `json:"unreadMessages"`
}
