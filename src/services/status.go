package services

import "github.com/codebros/codebros-backend/src/models"

// ResolveConnectionStatus classifies how viewerID relates to target given the viewer's
// connection rows. A nil viewer or target resolves to none. Self wins over everything, then an
// accepted row wins over a pending one regardless of direction. Declined rows count as none.
func ResolveConnectionStatus(viewerID *uint, target *models.User, conns []models.Connection) models.RelationshipStatus {
	return ResolveRelationship(viewerID, target, conns).Status
}

// ResolveRelationship is ResolveConnectionStatus plus the row that decided it. For pending
// relationships Direction says who sent the request. When several rows tie on status the
// highest id is reported.
func ResolveRelationship(viewerID *uint, target *models.User, conns []models.Connection) models.Relationship {
	if viewerID == nil || target == nil {
		return models.Relationship{Status: models.RelationshipNone}
	}
	viewer := *viewerID
	if viewer == target.ID {
		return models.Relationship{Status: models.RelationshipSelf}
	}

	var accepted, pending *models.Connection
	for i := range conns {
		c := &conns[i]
		if !c.Involves(viewer, target.ID) {
			continue
		}
		switch c.Status {
		case models.ConnectionStatusAccepted:
			if accepted == nil || c.ID > accepted.ID {
				accepted = c
			}
		case models.ConnectionStatusPending:
			if pending == nil || c.ID > pending.ID {
				pending = c
			}
		}
	}

	if accepted != nil {
		id := accepted.ID
		return models.Relationship{Status: models.RelationshipConnected, ConnectionID: &id}
	}
	if pending != nil {
		id := pending.ID
		direction := models.DirectionIncoming
		if pending.RequesterID == viewer {
			direction = models.DirectionOutgoing
		}
		return models.Relationship{Status: models.RelationshipPending, Direction: direction, ConnectionID: &id}
	}
	return models.Relationship{Status: models.RelationshipNone}
}
