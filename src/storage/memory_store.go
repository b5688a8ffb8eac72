package storage

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/codebros/codebros-backend/src/models"
)

type pairKey struct {
	low, high uint
}

// MemoryStore keeps everything in maps guarded by one RWMutex. Each instance has its own id
// counters. Values are copied in and out so callers never share rows with the store.
type MemoryStore struct {
	mu sync.RWMutex

	users       map[uint]models.User
	connections map[uint]models.Connection
	pairs       map[pairKey]uint
	messages    map[uint]models.Message

	nextUserID       uint
	nextConnectionID uint
	nextMessageID    uint

	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[uint]models.User),
		connections: make(map[uint]models.Connection),
		pairs:       make(map[pairKey]uint),
		messages:    make(map[uint]models.Message),
		now:         time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

func cloneUser(u models.User) *models.User {
	u.Skills = slices.Clone(u.Skills)
	return &u
}

func (s *MemoryStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetUsersByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := s.users[id]; ok {
			users = append(users, *cloneUser(u))
		}
	}
	return users, nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// usernameOrEmailTaken must be called with the lock held.
func (s *MemoryStore) usernameOrEmailTaken(username, email string, except uint) bool {
	for id, u := range s.users {
		if id == except {
			continue
		}
		if u.Username == username || u.Email == email {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameOrEmailTaken(user.Username, user.Email, 0) {
		return ErrDuplicateUser
	}

	s.nextUserID++
	user.ID = s.nextUserID
	now := s.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id uint, update models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	update.Apply(&u, s.now())
	if s.usernameOrEmailTaken(u.Username, u.Email, id) {
		return nil, ErrDuplicateUser
	}
	s.users[id] = u
	return cloneUser(u), nil
}

func (s *MemoryStore) SetUserOnlineStatus(_ context.Context, id uint, online bool, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u.IsOnline = online
	u.LastSeen = &at
	u.UpdatedAt = at
	s.users[id] = u
	return true, nil
}

func (s *MemoryStore) GetConnection(_ context.Context, a, b uint) (*models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	low, high := models.PairKey(a, b)
	id, ok := s.pairs[pairKey{low, high}]
	if !ok {
		return nil, nil
	}
	c := s.connections[id]
	return &c, nil
}

func (s *MemoryStore) GetConnectionByID(_ context.Context, id uint) (*models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.connections[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) ListConnectionsForUser(_ context.Context, userID uint) ([]models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conns := make([]models.Connection, 0)
	for _, c := range s.connections {
		if c.RequesterID == userID || c.ReceiverID == userID {
			conns = append(conns, c)
		}
	}
	sort.Slice(conns, func(i, j int) bool { return conns[i].ID < conns[j].ID })
	return conns, nil
}

func (s *MemoryStore) ListPendingRequests(_ context.Context, receiverID uint) ([]models.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conns := make([]models.Connection, 0)
	for _, c := range s.connections {
		if c.ReceiverID == receiverID && c.Status == models.ConnectionStatusPending {
			conns = append(conns, c)
		}
	}
	sortNewestConnectionsFirst(conns)
	return conns, nil
}

func sortNewestConnectionsFirst(conns []models.Connection) {
	sort.Slice(conns, func(i, j int) bool {
		if conns[i].CreatedAt.Equal(conns[j].CreatedAt) {
			return conns[i].ID > conns[j].ID
		}
		return conns[i].CreatedAt.After(conns[j].CreatedAt)
	})
}

func (s *MemoryStore) CreateConnection(_ context.Context, conn *models.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn.SetPair()
	key := pairKey{conn.PairLow, conn.PairHigh}
	if _, exists := s.pairs[key]; exists {
		return ErrDuplicateConnection
	}

	s.nextConnectionID++
	conn.ID = s.nextConnectionID
	now := s.now()
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now
	}
	conn.UpdatedAt = now
	s.connections[conn.ID] = *conn
	s.pairs[key] = conn.ID
	return nil
}

func (s *MemoryStore) UpdateConnectionStatus(_ context.Context, id uint, status models.ConnectionStatus) (*models.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.connections[id]
	if !ok {
		return nil, nil
	}
	if c.Status.Terminal() {
		return nil, ErrNotPending
	}
	c.Status = status
	c.UpdatedAt = s.now()
	s.connections[id] = c
	return &c, nil
}

func (s *MemoryStore) CreateMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMessageID++
	msg.ID = s.nextMessageID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}
	s.messages[msg.ID] = *msg
	return nil
}

func (s *MemoryStore) ListMessagesForUser(_ context.Context, userID uint) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]models.Message, 0)
	for _, m := range s.messages {
		if m.Involves(userID) {
			msgs = append(msgs, m)
		}
	}
	sortMessagesChronologically(msgs)
	return msgs, nil
}

func (s *MemoryStore) ListMessagesBetween(_ context.Context, a, b uint) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]models.Message, 0)
	for _, m := range s.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			msgs = append(msgs, m)
		}
	}
	sortMessagesChronologically(msgs)
	return msgs, nil
}

func sortMessagesChronologically(msgs []models.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}

func (s *MemoryStore) CountUnreadMessages(_ context.Context, receiverID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, m := range s.messages {
		if m.ReceiverID == receiverID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) MarkRead(_ context.Context, senderID, receiverID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, m := range s.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			s.messages[id] = m
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
