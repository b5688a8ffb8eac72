// Package storage holds the entity store used by the CodeBros services: an interface plus
// in-memory, GORM (sqlite/postgres) and MongoDB implementations.
//
// Lookups of a single row return (nil, nil) when the row does not exist.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/codebros/codebros-backend/src/models"
)

var (
	// ErrDuplicateConnection is returned when a connection already exists for the unordered pair.
	ErrDuplicateConnection = errors.New("connection already exists for this pair")
	// ErrDuplicateUser is returned when the username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already taken")
	// ErrNotPending is returned when a status update targets a connection that was already answered.
	ErrNotPending = errors.New("connection is no longer pending")
)

// UserStore persists developer profiles.
type UserStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUsersByIDs returns the users that exist among ids, in no particular order.
	GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	// ListUsers returns every user ordered by id.
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	// UpdateUser applies update and returns the stored row, or nil when id is unknown.
	UpdateUser(ctx context.Context, id uint, update models.UserUpdate) (*models.User, error)
	SetUserOnlineStatus(ctx context.Context, id uint, online bool, at time.Time) (bool, error)
}

// ConnectionStore persists connection requests.
type ConnectionStore interface {
	// GetConnection finds the row for the unordered pair {a, b}.
	GetConnection(ctx context.Context, a, b uint) (*models.Connection, error)
	GetConnectionByID(ctx context.Context, id uint) (*models.Connection, error)
	// ListConnectionsForUser returns every row where userID is requester or receiver.
	ListConnectionsForUser(ctx context.Context, userID uint) ([]models.Connection, error)
	// ListPendingRequests returns pending rows received by receiverID, newest first.
	ListPendingRequests(ctx context.Context, receiverID uint) ([]models.Connection, error)
	CreateConnection(ctx context.Context, conn *models.Connection) error
	// UpdateConnectionStatus answers a pending row. It returns (nil, nil) for an unknown id and
	// ErrNotPending when the row has left pending.
	UpdateConnectionStatus(ctx context.Context, id uint, status models.ConnectionStatus) (*models.Connection, error)
}

// MessageStore persists direct messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessagesForUser(ctx context.Context, userID uint) ([]models.Message, error)
	// ListMessagesBetween returns both directions ordered by createdAt, then id.
	ListMessagesBetween(ctx context.Context, a, b uint) ([]models.Message, error)
	CountUnreadMessages(ctx context.Context, receiverID uint) (int64, error)
	// MarkRead flags every unread message from sender to receiver as read in one step and
	// returns how many changed.
	MarkRead(ctx context.Context, senderID, receiverID uint) (int64, error)
}

// Store is the full entity store.
type Store interface {
	UserStore
	ConnectionStore
	MessageStore

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
