package services

import (
	"context"
	"fmt"

	"github.com/codebros/codebros-backend/src/apperrors"
	"github.com/codebros/codebros-backend/src/log"
	"github.com/codebros/codebros-backend/src/models"
	"github.com/codebros/codebros-backend/src/storage"
)

type NotificationService struct {
	store storage.Store
}

func NewNotificationService(store storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

// Summary returns the pending requests received by userID, newest first with their requesters,
// and the number of unread messages addressed to userID.
func (s *NotificationService) Summary(ctx context.Context, userID uint) (*models.NotificationSummary, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("User")
	}

	pending, err := s.store.ListPendingRequests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing pending requests: %w", err)
	}

	ids := make([]uint, 0, len(pending))
	for _, c := range pending {
		ids = append(ids, c.RequesterID)
	}
	requesters, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading requesters: %w", err)
	}
	byID := make(map[uint]models.User, len(requesters))
	for _, u := range requesters {
		byID[u.ID] = u
	}

	summary := &models.NotificationSummary{PendingRequests: make([]models.PendingRequest, 0, len(pending))}
	for _, c := range pending {
		requester, ok := byID[c.RequesterID]
		if !ok {
			log.WithComponent("notifications").Warn().
				Uint("connection_id", c.ID).
				Uint("requester_id", c.RequesterID).
				Msg("Skipping pending request from unknown requester")
			continue
		}
		summary.PendingRequests = append(summary.PendingRequests, models.PendingRequest{
			Connection: c,
			Requester:  requester,
		})
	}

	summary.UnreadMessages, err = s.store.CountUnreadMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting unread messages: %w", err)
	}
	return summary, nil
}
