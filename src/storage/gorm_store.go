package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/codebros/codebros-backend/src/lib"
	"github.com/codebros/codebros-backend/src/models"
)

// GormStore is the relational store. It expects a *gorm.DB opened with TranslateError so unique
// violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) first(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := s.db.WithContext(ctx).Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	found, err := s.first(ctx, &user, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	found, err := s.first(ctx, &user, "username = ?", username)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	found, err := s.first(ctx, &user, "email = ?", email)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUser
	}
	return err
}

func (s *GormStore) UpdateUser(ctx context.Context, id uint, update models.UserUpdate) (*models.User, error) {
	var updated *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.First(&user, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		update.Apply(&user, time.Now())
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		updated = &user
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormStore) SetUserOnlineStatus(ctx context.Context, id uint, online bool, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_online":  online,
		"last_seen":  at,
		"updated_at": at,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) GetConnection(ctx context.Context, a, b uint) (*models.Connection, error) {
	low, high := models.PairKey(a, b)
	var conn models.Connection
	found, err := s.first(ctx, &conn, "pair_low = ? AND pair_high = ?", low, high)
	if err != nil || !found {
		return nil, err
	}
	return &conn, nil
}

func (s *GormStore) GetConnectionByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	found, err := s.first(ctx, &conn, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &conn, nil
}

func (s *GormStore) ListConnectionsForUser(ctx context.Context, userID uint) ([]models.Connection, error) {
	conns := make([]models.Connection, 0)
	err := s.db.WithContext(ctx).
		Where("requester_id = ? OR receiver_id = ?", userID, userID).
		Order("id").
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func (s *GormStore) ListPendingRequests(ctx context.Context, receiverID uint) ([]models.Connection, error) {
	conns := make([]models.Connection, 0)
	err := s.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, models.ConnectionStatusPending).
		Order("created_at DESC, id DESC").
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func (s *GormStore) CreateConnection(ctx context.Context, conn *models.Connection) error {
	conn.SetPair()
	err := s.db.WithContext(ctx).Create(conn).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateConnection
	}
	return err
}

func (s *GormStore) UpdateConnectionStatus(ctx context.Context, id uint, status models.ConnectionStatus) (*models.Connection, error) {
	result := s.db.WithContext(ctx).Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, models.ConnectionStatusPending).
		Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := s.GetConnectionByID(ctx, id)
		if err != nil || existing == nil {
			return nil, err
		}
		return nil, ErrNotPending
	}
	return s.GetConnectionByID(ctx, id)
}

func (s *GormStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *GormStore) ListMessagesForUser(ctx context.Context, userID uint) ([]models.Message, error) {
	msgs := make([]models.Message, 0)
	err := s.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at, id").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *GormStore) ListMessagesBetween(ctx context.Context, a, b uint) ([]models.Message, error) {
	msgs := make([]models.Message, 0)
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at, id").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *GormStore) CountUnreadMessages(ctx context.Context, receiverID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&n).Error
	return n, err
}

func (s *GormStore) MarkRead(ctx context.Context, senderID, receiverID uint) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (s *GormStore) Migrate(ctx context.Context) error {
	return lib.AutoMigrate(s.db.WithContext(ctx))
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
