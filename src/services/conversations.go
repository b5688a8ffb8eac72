package services

import (
	"sort"

	"github.com/codebros/codebros-backend/src/models"
)

// ConversationDigest is one partner's thread before the partner user is loaded.
type ConversationDigest struct {
	PartnerID   uint
	LastMessage models.Message
	UnreadCount int
}

// AggregateConversations folds viewerID's messages into one digest per partner, most recently
// active first. Messages that do not involve the viewer are skipped. Messages the viewer sent
// to themselves are grouped under the viewer's own id.
func AggregateConversations(viewerID uint, messages []models.Message) []ConversationDigest {
	byPartner := make(map[uint]*ConversationDigest)

	for i := range messages {
		m := &messages[i]
		if !m.Involves(viewerID) {
			continue
		}
		partner := m.Peer(viewerID)

		d, ok := byPartner[partner]
		if !ok {
			d = &ConversationDigest{PartnerID: partner, LastMessage: *m}
			byPartner[partner] = d
		} else if m.NewerThan(&d.LastMessage) {
			d.LastMessage = *m
		}

		if m.ReceiverID == viewerID && m.SenderID == partner && !m.IsRead {
			d.UnreadCount++
		}
	}

	digests := make([]ConversationDigest, 0, len(byPartner))
	for _, d := range byPartner {
		digests = append(digests, *d)
	}
	sort.Slice(digests, func(i, j int) bool {
		return digests[i].LastMessage.NewerThan(&digests[j].LastMessage)
	})
	return digests
}
