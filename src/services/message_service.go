package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/codebros/codebros-backend/src/apperrors"
	"github.com/codebros/codebros-backend/src/metrics"
	"github.com/codebros/codebros-backend/src/models"
	"github.com/codebros/codebros-backend/src/storage"
)

const MaxMessageLength = 5000

// SendMessageInput is a new direct message.
type SendMessageInput struct {
	SenderID   uint   `json:"senderId" validate:"required,gt=0"`
	ReceiverID uint   `json:"receiverId" validate:"required,gt=0"`
	Content    string `json:"content" validate:"notblank,max=5000"`
}

// MarkReadInput names the thread direction to flag as read.
type MarkReadInput struct {
	SenderID   uint `json:"senderId" validate:"required,gt=0"`
	ReceiverID uint `json:"receiverId" validate:"required,gt=0"`
}

type MessageService struct {
	store storage.Store
}

func NewMessageService(store storage.Store) *MessageService {
	return &MessageService{store: store}
}

func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	for _, id := range []uint{in.SenderID, in.ReceiverID} {
		user, err := s.store.GetUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("getting user: %w", err)
		}
		if user == nil {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("User %d", id))
		}
	}

	msg := &models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	metrics.MessagesSent.Inc()
	return msg, nil
}

// GetMessagesBetween returns the thread between a and b in both directions, oldest first.
func (s *MessageService) GetMessagesBetween(ctx context.Context, a, b uint) ([]models.Message, error) {
	msgs, err := s.store.ListMessagesBetween(ctx, a, b)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return msgs, nil
}

// GetConversations builds the inbox for userID. A partner id found in the user's messages that no
// longer resolves to a user is a store inconsistency and surfaces as NotFound.
func (s *MessageService) GetConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	msgs, err := s.store.ListMessagesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	digests := AggregateConversations(userID, msgs)
	if len(digests) == 0 {
		return []models.Conversation{}, nil
	}

	ids := make([]uint, 0, len(digests))
	for _, d := range digests {
		ids = append(ids, d.PartnerID)
	}
	partners, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading conversation partners: %w", err)
	}
	byID := make(map[uint]models.User, len(partners))
	for _, u := range partners {
		byID[u.ID] = u
	}

	conversations := make([]models.Conversation, 0, len(digests))
	for _, d := range digests {
		partner, ok := byID[d.PartnerID]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("conversation partner %d", d.PartnerID))
		}
		conversations = append(conversations, models.Conversation{
			User:        partner,
			LastMessage: d.LastMessage,
			UnreadCount: d.UnreadCount,
		})
	}
	return conversations, nil
}

// MarkAsRead flags every unread message from sender to receiver as read and returns how many
// changed. Calling it again changes nothing.
func (s *MessageService) MarkAsRead(ctx context.Context, in MarkReadInput) (int64, error) {
	if err := ValidateStruct(in); err != nil {
		return 0, err
	}

	n, err := s.store.MarkRead(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return 0, fmt.Errorf("marking messages read: %w", err)
	}
	metrics.MessagesMarkedRead.Add(float64(n))
	return n, nil
}
