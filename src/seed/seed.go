// Package seed loads the bundled sample developers, connections and messages.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codebros/codebros-backend/src/log"
	"github.com/codebros/codebros-backend/src/models"
	"github.com/codebros/codebros-backend/src/storage"
)

//go:embed sample_data.yaml
var sampleData []byte

// Data is the seed file layout. Users are referenced by username elsewhere in the file.
type Data struct {
	Users       []UserSeed       `yaml:"users"`
	Connections []ConnectionSeed `yaml:"connections"`
	Messages    []MessageSeed    `yaml:"messages"`
}

type UserSeed struct {
	Username          string   `yaml:"username"`
	Email             string   `yaml:"email"`
	Password          string   `yaml:"password"`
	FirstName         string   `yaml:"firstName"`
	LastName          string   `yaml:"lastName"`
	Title             string   `yaml:"title"`
	Bio               string   `yaml:"bio"`
	ExperienceLevel   string   `yaml:"experienceLevel"`
	Skills            []string `yaml:"skills"`
	ProfileImage      string   `yaml:"profileImage"`
	IsOnline          bool     `yaml:"isOnline"`
	OpenToCollaborate bool     `yaml:"openToCollaborate"`
	LastSeenAgo       string   `yaml:"lastSeenAgo"`
}

type ConnectionSeed struct {
	Requester string `yaml:"requester"`
	Receiver  string `yaml:"receiver"`
	Status    string `yaml:"status"`
}

type MessageSeed struct {
	Sender   string `yaml:"sender"`
	Receiver string `yaml:"receiver"`
	Content  string `yaml:"content"`
	SentAgo  string `yaml:"sentAgo"`
}

// SampleData parses the embedded seed file.
func SampleData() (*Data, error) {
	return Parse(sampleData)
}

// Parse decodes a seed file.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// ParseFile reads and decodes a seed file from disk.
func ParseFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(raw)
}

// Load writes data into store unless the store already has users. It reports whether anything
// was written.
func Load(ctx context.Context, store storage.Store, data *Data) (bool, error) {
	logger := log.WithComponent("seed")

	existing, err := store.ListUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("checking existing users: %w", err)
	}
	if len(existing) > 0 {
		logger.Info().Msg("Store already has data, skipping sample data")
		return false, nil
	}

	now := time.Now().UTC()
	ids := make(map[string]uint, len(data.Users))

	for _, us := range data.Users {
		lastSeen, err := ago(now, us.LastSeenAgo)
		if err != nil {
			return false, fmt.Errorf("user %s: %w", us.Username, err)
		}
		user := &models.User{
			Username:          us.Username,
			Email:             us.Email,
			Password:          us.Password,
			FirstName:         us.FirstName,
			LastName:          us.LastName,
			Title:             us.Title,
			ExperienceLevel:   models.ExperienceLevel(us.ExperienceLevel),
			Skills:            us.Skills,
			IsOnline:          us.IsOnline,
			OpenToCollaborate: us.OpenToCollaborate,
			LastSeen:          &lastSeen,
		}
		if us.Bio != "" {
			bio := us.Bio
			user.Bio = &bio
		}
		if us.ProfileImage != "" {
			img := us.ProfileImage
			user.ProfileImage = &img
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return false, fmt.Errorf("creating user %s: %w", us.Username, err)
		}
		ids[us.Username] = user.ID
	}
	logger.Info().Int("count", len(data.Users)).Msg("Sample users created")

	for _, cs := range data.Connections {
		requester, receiver, err := lookupPair(ids, cs.Requester, cs.Receiver)
		if err != nil {
			return false, fmt.Errorf("connection: %w", err)
		}
		status := models.ConnectionStatus(cs.Status)
		if !status.Valid() {
			return false, fmt.Errorf("connection %s -> %s: unknown status %q", cs.Requester, cs.Receiver, cs.Status)
		}
		conn := &models.Connection{RequesterID: requester, ReceiverID: receiver, Status: status}
		if err := store.CreateConnection(ctx, conn); err != nil {
			return false, fmt.Errorf("creating connection %s -> %s: %w", cs.Requester, cs.Receiver, err)
		}
	}
	logger.Info().Int("count", len(data.Connections)).Msg("Sample connections created")

	for _, ms := range data.Messages {
		sender, receiver, err := lookupPair(ids, ms.Sender, ms.Receiver)
		if err != nil {
			return false, fmt.Errorf("message: %w", err)
		}
		sentAt, err := ago(now, ms.SentAgo)
		if err != nil {
			return false, fmt.Errorf("message %s -> %s: %w", ms.Sender, ms.Receiver, err)
		}
		msg := &models.Message{SenderID: sender, ReceiverID: receiver, Content: ms.Content, CreatedAt: sentAt}
		if err := store.CreateMessage(ctx, msg); err != nil {
			return false, fmt.Errorf("creating message: %w", err)
		}
	}
	logger.Info().Int("count", len(data.Messages)).Msg("Sample messages created")

	return true, nil
}

func lookupPair(ids map[string]uint, a, b string) (uint, uint, error) {
	idA, ok := ids[a]
	if !ok {
		return 0, 0, fmt.Errorf("unknown user %q", a)
	}
	idB, ok := ids[b]
	if !ok {
		return 0, 0, fmt.Errorf("unknown user %q", b)
	}
	return idA, idB, nil
}

func ago(now time.Time, raw string) (time.Time, error) {
	if raw == "" {
		return now, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	return now.Add(-d), nil
}
