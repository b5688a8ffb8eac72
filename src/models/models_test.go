package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPairKey(t *testing.T) {
	lo, hi := PairKey(7, 3)
	assert.Equal(t, uint(3), lo)
	assert.Equal(t, uint(7), hi)

	lo, hi = PairKey(3, 7)
	assert.Equal(t, uint(3), lo)
	assert.Equal(t, uint(7), hi)

	c := &Connection{RequesterID: 9, ReceiverID: 2}
	c.SetPair()
	assert.Equal(t, uint(2), c.PairLow)
	assert.Equal(t, uint(9), c.PairHigh)
	assert.True(t, c.Involves(2, 9))
	assert.False(t, c.Involves(2, 3))
	assert.Equal(t, uint(2), c.Peer(9))
	assert.Equal(t, uint(9), c.Peer(2))
}

func TestConnectionStatus(t *testing.T) {
	assert.True(t, ConnectionStatusPending.Valid())
	assert.False(t, ConnectionStatus("blocked").Valid())
	assert.False(t, ConnectionStatusPending.Terminal())
	assert.True(t, ConnectionStatusAccepted.Terminal())
	assert.True(t, ConnectionStatusDeclined.Terminal())
}

func TestMessageNewerThan(t *testing.T) {
	now := time.Now()
	older := &Message{ID: 5, CreatedAt: now.Add(-time.Second)}
	newer := &Message{ID: 1, CreatedAt: now}
	tied := &Message{ID: 2, CreatedAt: now}

	assert.True(t, newer.NewerThan(older))
	assert.False(t, older.NewerThan(newer))
	assert.True(t, tied.NewerThan(newer))
	assert.False(t, newer.NewerThan(tied))
}

func TestUserUpdateApply(t *testing.T) {
	assert.True(t, UserUpdate{}.IsEmpty())

	bio := "Rustacean"
	open := true
	level := ExperienceProfessional
	update := UserUpdate{Bio: &bio, OpenToCollaborate: &open, ExperienceLevel: &level, Skills: []string{"Rust"}}
	assert.False(t, update.IsEmpty())

	user := &User{Username: "alice", Skills: []string{"Go"}}
	now := time.Now()
	update.Apply(user, now)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Rustacean", *user.Bio)
	assert.True(t, user.OpenToCollaborate)
	assert.Equal(t, ExperienceProfessional, user.ExperienceLevel)
	assert.Equal(t, []string{"Rust"}, user.Skills)
	assert.Equal(t, now, user.UpdatedAt)

	// the user must not alias the update
	bio = "changed"
	update.Skills[0] = "Zig"
	assert.Equal(t, "Rustacean", *user.Bio)
	assert.Equal(t, []string{"Rust"}, user.Skills)
}

func TestUserSearchMatches(t *testing.T) {
	bio := "Loves distributed systems"
	user := &User{
		FirstName:         "Komal",
		Title:             "DevOps Engineer",
		Bio:               &bio,
		ExperienceLevel:   ExperienceProfessional,
		Skills:            []string{"Kubernetes", "Terraform"},
		IsOnline:          true,
		OpenToCollaborate: false,
	}

	tests := []struct {
		name   string
		search UserSearch
		want   bool
	}{
		{"empty", UserSearch{}, true},
		{"name", UserSearch{Query: "koMAL"}, true},
		{"bio", UserSearch{Query: "distributed"}, true},
		{"skill text", UserSearch{Query: "terra"}, true},
		{"no match", UserSearch{Query: "django"}, false},
		{"level", UserSearch{ExperienceLevels: []ExperienceLevel{ExperienceBeginner, ExperienceProfessional}}, true},
		{"wrong level", UserSearch{ExperienceLevels: []ExperienceLevel{ExperienceBeginner}}, false},
		{"any skill", UserSearch{Skills: []string{"react", "kube"}}, true},
		{"missing skill", UserSearch{Skills: []string{"react"}}, false},
		{"online", UserSearch{IsOnline: true}, true},
		{"collaborators only", UserSearch{OpenToCollaborate: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.search.Matches(user))
		})
	}
}
