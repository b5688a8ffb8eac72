package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/codebros/codebros-backend/src/apperrors"
	"github.com/codebros/codebros-backend/src/log"
	"github.com/codebros/codebros-backend/src/metrics"
	"github.com/codebros/codebros-backend/src/models"
	"github.com/codebros/codebros-backend/src/storage"
)

// CreateConnectionInput is a connection request. Status may be omitted; anything but pending is
// rejected.
type CreateConnectionInput struct {
	RequesterID uint                    `json:"requesterId" validate:"required,gt=0"`
	ReceiverID  uint                    `json:"receiverId" validate:"required,gt=0"`
	Status      models.ConnectionStatus `json:"status,omitempty" validate:"omitempty,oneof=pending"`
	Message     *string                 `json:"message,omitempty" validate:"omitempty,max=500"`
}

var errAlreadyProcessed = apperrors.NewConflictError("connection request has already been processed")

// UpdateConnectionStatusInput answers a pending request.
type UpdateConnectionStatusInput struct {
	Status models.ConnectionStatus `json:"status" validate:"required,oneof=accepted declined"`
}

type ConnectionService struct {
	store storage.Store
}

func NewConnectionService(store storage.Store) *ConnectionService {
	return &ConnectionService{store: store}
}

// CreateConnection opens a pending request from requester to receiver. The existence check gives
// the common case a friendly error; the store's pair constraint catches concurrent inserts.
func (s *ConnectionService) CreateConnection(ctx context.Context, in CreateConnectionInput) (*models.Connection, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	if in.RequesterID == in.ReceiverID {
		return nil, apperrors.NewValidationError("receiverId", "cannot send a connection request to yourself")
	}

	for _, id := range []uint{in.RequesterID, in.ReceiverID} {
		user, err := s.store.GetUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("getting user: %w", err)
		}
		if user == nil {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("User %d", id))
		}
	}

	existing, err := s.store.GetConnection(ctx, in.RequesterID, in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("checking existing connection: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateConnection
	}

	conn := &models.Connection{
		RequesterID: in.RequesterID,
		ReceiverID:  in.ReceiverID,
		Status:      models.ConnectionStatusPending,
		Message:     in.Message,
	}
	if err := s.store.CreateConnection(ctx, conn); err != nil {
		if errors.Is(err, storage.ErrDuplicateConnection) {
			return nil, apperrors.ErrDuplicateConnection
		}
		return nil, fmt.Errorf("creating connection: %w", err)
	}

	metrics.ConnectionsCreated.Inc()
	log.WithComponent("connections").Debug().
		Uint("connection_id", conn.ID).
		Uint("requester_id", conn.RequesterID).
		Uint("receiver_id", conn.ReceiverID).
		Msg("Connection request created")
	return conn, nil
}

// UpdateStatus moves a pending request to accepted or declined. actorID, when known, must be the
// receiver of the request.
func (s *ConnectionService) UpdateStatus(ctx context.Context, id uint, actorID *uint, in UpdateConnectionStatusInput) (*models.Connection, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	conn, err := s.store.GetConnectionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting connection: %w", err)
	}
	if conn == nil {
		return nil, apperrors.NewNotFoundError("Connection")
	}
	if actorID != nil && *actorID != conn.ReceiverID {
		return nil, apperrors.ErrForbidden.WithMessage("Only the recipient can respond to a connection request")
	}
	if conn.Status.Terminal() {
		return nil, errAlreadyProcessed
	}

	// the store only moves rows that are still pending, so a concurrent answer loses here
	updated, err := s.store.UpdateConnectionStatus(ctx, id, in.Status)
	if errors.Is(err, storage.ErrNotPending) {
		return nil, errAlreadyProcessed
	}
	if err != nil {
		return nil, fmt.Errorf("updating connection: %w", err)
	}
	if updated == nil {
		return nil, apperrors.NewNotFoundError("Connection")
	}

	metrics.ConnectionTransitions.WithLabelValues(string(in.Status)).Inc()
	return updated, nil
}

func (s *ConnectionService) ListForUser(ctx context.Context, userID uint) ([]models.Connection, error) {
	conns, err := s.store.ListConnectionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	return conns, nil
}

func (s *ConnectionService) ListPending(ctx context.Context, userID uint) ([]models.Connection, error) {
	conns, err := s.store.ListPendingRequests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing pending requests: %w", err)
	}
	return conns, nil
}

// ListAcceptedUsers returns the users connected to userID, ordered by id.
func (s *ConnectionService) ListAcceptedUsers(ctx context.Context, userID uint) ([]models.User, error) {
	peers, err := acceptedPeerIDs(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if len(peers) == 0 {
		return []models.User{}, nil
	}

	ids := make([]uint, 0, len(peers))
	for id := range peers {
		ids = append(ids, id)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading connected users: %w", err)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Relationship resolves how viewerID relates to targetID. An anonymous viewer resolves to none;
// an unknown target is NotFound.
func (s *ConnectionService) Relationship(ctx context.Context, viewerID *uint, targetID uint) (models.Relationship, error) {
	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return models.Relationship{}, fmt.Errorf("getting user: %w", err)
	}
	if target == nil {
		return models.Relationship{}, apperrors.NewNotFoundError("User")
	}
	if viewerID == nil || *viewerID == targetID {
		return ResolveRelationship(viewerID, target, nil), nil
	}

	conns, err := s.store.ListConnectionsForUser(ctx, *viewerID)
	if err != nil {
		return models.Relationship{}, fmt.Errorf("listing connections: %w", err)
	}
	return ResolveRelationship(viewerID, target, conns), nil
}
