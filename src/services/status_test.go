package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebros/codebros-backend/src/models"
)

func uintPtr(v uint) *uint { return &v }

func conn(id, requester, receiver uint, status models.ConnectionStatus) models.Connection {
	return models.Connection{ID: id, RequesterID: requester, ReceiverID: receiver, Status: status}
}

func TestResolveConnectionStatus(t *testing.T) {
	target := &models.User{ID: 2}

	tests := []struct {
		name   string
		viewer *uint
		target *models.User
		conns  []models.Connection
		want   models.RelationshipStatus
	}{
		{
			name:   "anonymous viewer",
			viewer: nil,
			target: target,
			conns:  []models.Connection{conn(1, 1, 2, models.ConnectionStatusAccepted)},
			want:   models.RelationshipNone,
		},
		{
			name:   "missing target",
			viewer: uintPtr(1),
			target: nil,
			want:   models.RelationshipNone,
		},
		{
			name:   "self wins over rows",
			viewer: uintPtr(2),
			target: target,
			conns:  []models.Connection{conn(1, 2, 2, models.ConnectionStatusAccepted)},
			want:   models.RelationshipSelf,
		},
		{
			name:   "no rows",
			viewer: uintPtr(1),
			target: target,
			want:   models.RelationshipNone,
		},
		{
			name:   "accepted outgoing",
			viewer: uintPtr(1),
			target: target,
			conns:  []models.Connection{conn(1, 1, 2, models.ConnectionStatusAccepted)},
			want:   models.RelationshipConnected,
		},
		{
			name:   "accepted incoming",
			viewer: uintPtr(1),
			target: target,
			conns:  []models.Connection{conn(1, 2, 1, models.ConnectionStatusAccepted)},
			want:   models.RelationshipConnected,
		},
		{
			name:   "pending either direction",
			viewer: uintPtr(1),
			target: target,
			conns:  []models.Connection{conn(1, 2, 1, models.ConnectionStatusPending)},
			want:   models.RelationshipPending,
		},
		{
			name:   "accepted masks stale pending",
			viewer: uintPtr(1),
			target: target,
			conns: []models.Connection{
				conn(1, 1, 2, models.ConnectionStatusPending),
				conn(2, 2, 1, models.ConnectionStatusAccepted),
			},
			want: models.RelationshipConnected,
		},
		{
			name:   "declined is none",
			viewer: uintPtr(1),
			target: target,
			conns:  []models.Connection{conn(1, 1, 2, models.ConnectionStatusDeclined)},
			want:   models.RelationshipNone,
		},
		{
			name:   "rows with other users ignored",
			viewer: uintPtr(1),
			target: target,
			conns: []models.Connection{
				conn(1, 1, 3, models.ConnectionStatusAccepted),
				conn(2, 4, 1, models.ConnectionStatusPending),
			},
			want: models.RelationshipNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveConnectionStatus(tt.viewer, tt.target, tt.conns))
		})
	}
}

func TestResolveRelationshipDirection(t *testing.T) {
	target := &models.User{ID: 2}

	outgoing := ResolveRelationship(uintPtr(1), target, []models.Connection{conn(7, 1, 2, models.ConnectionStatusPending)})
	assert.Equal(t, models.RelationshipPending, outgoing.Status)
	assert.Equal(t, models.DirectionOutgoing, outgoing.Direction)
	require.NotNil(t, outgoing.ConnectionID)
	assert.Equal(t, uint(7), *outgoing.ConnectionID)

	incoming := ResolveRelationship(uintPtr(1), target, []models.Connection{
		conn(3, 1, 2, models.ConnectionStatusPending),
		conn(9, 2, 1, models.ConnectionStatusPending),
	})
	assert.Equal(t, models.DirectionIncoming, incoming.Direction)
	assert.Equal(t, uint(9), *incoming.ConnectionID)

	connected := ResolveRelationship(uintPtr(1), target, []models.Connection{conn(4, 2, 1, models.ConnectionStatusAccepted)})
	assert.Equal(t, models.RelationshipConnected, connected.Status)
	assert.Empty(t, connected.Direction)
	assert.Equal(t, uint(4), *connected.ConnectionID)

	none := ResolveRelationship(nil, target, nil)
	assert.Nil(t, none.ConnectionID)
}
