// Package services holds the CodeBros business logic: users, connection requests, messages and
// notifications on top of an injected storage.Store.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/codebros/codebros-backend/src/apperrors"
	"github.com/codebros/codebros-backend/src/models"
	"github.com/codebros/codebros-backend/src/storage"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// CreateUserInput is the body of a sign-up request.
type CreateUserInput struct {
	Username          string                 `json:"username" validate:"required,min=3,max=64"`
	Email             string                 `json:"email" validate:"required,email"`
	Password          string                 `json:"password" validate:"required,min=6"`
	FirstName         string                 `json:"firstName" validate:"required,max=100"`
	LastName          string                 `json:"lastName" validate:"required,max=100"`
	Title             string                 `json:"title" validate:"required,max=120"`
	Bio               *string                `json:"bio,omitempty" validate:"omitempty,max=2000"`
	ExperienceLevel   models.ExperienceLevel `json:"experienceLevel" validate:"required,oneof=beginner intermediate professional"`
	Skills            []string               `json:"skills" validate:"omitempty,dive,min=1,max=50"`
	ProfileImage      *string                `json:"profileImage,omitempty" validate:"omitempty,uri"`
	OpenToCollaborate bool                   `json:"openToCollaborate"`
}

// Pagination describes one page of a list.
type Pagination struct {
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// UserPage is a page of users.
type UserPage struct {
	Data       []models.User `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

type UserService struct {
	store storage.Store
	now   func() time.Time
}

func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store, now: time.Now}
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	now := s.now()
	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}
	user := &models.User{
		Username:          in.Username,
		Email:             in.Email,
		Password:          in.Password,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Title:             in.Title,
		Bio:               in.Bio,
		ExperienceLevel:   in.ExperienceLevel,
		Skills:            skills,
		ProfileImage:      in.ProfileImage,
		OpenToCollaborate: in.OpenToCollaborate,
		LastSeen:          &now,
		CreatedAt:         now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateUser) {
			return nil, apperrors.NewConflictError("Username or email already exists")
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// ensureAvailable reports a Conflict when username or email belongs to a user other than except.
func (s *UserService) ensureAvailable(ctx context.Context, username, email string, except uint) error {
	if username != "" {
		existing, err := s.store.GetUserByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("checking username: %w", err)
		}
		if existing != nil && existing.ID != except {
			return apperrors.NewConflictError("Username already exists")
		}
	}
	if email != "" {
		existing, err := s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("checking email: %w", err)
		}
		if existing != nil && existing.ID != except {
			return apperrors.NewConflictError("Email already exists")
		}
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("User")
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// SearchUsers filters every user through search, keeping id order.
func (s *UserService) SearchUsers(ctx context.Context, search models.UserSearch) ([]models.User, error) {
	for _, level := range search.ExperienceLevels {
		switch level {
		case models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceProfessional:
		default:
			return nil, apperrors.NewValidationError("experienceLevel", fmt.Sprintf("unknown experience level %q", level))
		}
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if search.IsEmpty() {
		return users, nil
	}

	matched := make([]models.User, 0, len(users))
	for i := range users {
		if search.Matches(&users[i]) {
			matched = append(matched, users[i])
		}
	}
	return matched, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, update models.UserUpdate) (*models.User, error) {
	if err := ValidateStruct(update); err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return s.GetUser(ctx, id)
	}

	var username, email string
	if update.Username != nil {
		username = *update.Username
	}
	if update.Email != nil {
		email = *update.Email
	}
	if err := s.ensureAvailable(ctx, username, email, id); err != nil {
		return nil, err
	}

	user, err := s.store.UpdateUser(ctx, id, update)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateUser) {
			return nil, apperrors.NewConflictError("Username or email already exists")
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("User")
	}
	return user, nil
}

func (s *UserService) SetOnlineStatus(ctx context.Context, id uint, online bool) error {
	found, err := s.store.SetUserOnlineStatus(ctx, id, online, s.now())
	if err != nil {
		return fmt.Errorf("setting online status: %w", err)
	}
	if !found {
		return apperrors.NewNotFoundError("User")
	}
	return nil
}

// Login compares the stored password as-is. The same error covers an unknown email and a wrong
// password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	invalid := apperrors.ErrUnauthorized.WithMessage("invalid credentials")
	if email == "" || password == "" {
		return nil, invalid
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil || user.Password != password {
		return nil, invalid
	}
	return user, nil
}

// GetMutualConnections returns the users accepted-connected to both viewerID and profileID,
// ordered by id.
func (s *UserService) GetMutualConnections(ctx context.Context, viewerID, profileID uint, skip, limit int) (*UserPage, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	if _, err := s.GetUser(ctx, profileID); err != nil {
		return nil, err
	}

	viewerPeers, err := acceptedPeerIDs(ctx, s.store, viewerID)
	if err != nil {
		return nil, err
	}
	profilePeers, err := acceptedPeerIDs(ctx, s.store, profileID)
	if err != nil {
		return nil, err
	}

	mutual := make([]uint, 0)
	for id := range viewerPeers {
		if profilePeers[id] && id != viewerID && id != profileID {
			mutual = append(mutual, id)
		}
	}
	sort.Slice(mutual, func(i, j int) bool { return mutual[i] < mutual[j] })

	page := &UserPage{
		Data:       []models.User{},
		Pagination: Pagination{Total: len(mutual), Skip: skip, Limit: limit},
	}
	if skip >= len(mutual) {
		return page, nil
	}
	end := min(skip+limit, len(mutual))

	users, err := s.store.GetUsersByIDs(ctx, mutual[skip:end])
	if err != nil {
		return nil, fmt.Errorf("loading mutual connections: %w", err)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	page.Data = users
	return page, nil
}

// acceptedPeerIDs returns the set of users with an accepted connection to userID.
func acceptedPeerIDs(ctx context.Context, store storage.ConnectionStore, userID uint) (map[uint]bool, error) {
	conns, err := store.ListConnectionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}
	peers := make(map[uint]bool, len(conns))
	for _, c := range conns {
		if c.Status == models.ConnectionStatusAccepted {
			peers[c.Peer(userID)] = true
		}
	}
	return peers, nil
}
