package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codebros/codebros-backend/src/apperrors"
	"github.com/codebros/codebros-backend/src/models"
	"github.com/codebros/codebros-backend/src/storage"
)

func userInput(username string) CreateUserInput {
	return CreateUserInput{
		Username:        username,
		Email:           username + "@codebros.dev",
		Password:        "password123",
		FirstName:       "Test",
		LastName:        "User",
		Title:           "Backend Developer",
		ExperienceLevel: models.ExperienceIntermediate,
		Skills:          []string{"Go"},
	}
}

// mustCreateUsers creates users through the service and returns them in order.
func mustCreateUsers(t *testing.T, svc *UserService, names ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(names))
	for _, n := range names {
		u, err := svc.CreateUser(context.Background(), userInput(n))
		require.NoError(t, err)
		users = append(users, u)
	}
	return users
}

func TestUserServiceCreate(t *testing.T) {
	svc := NewUserService(storage.NewMemoryStore())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, userInput("alice"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsOnline)
	assert.NotNil(t, user.LastSeen)

	_, err = svc.CreateUser(ctx, userInput("alice"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	dupEmail := userInput("alice2")
	dupEmail.Email = "alice@codebros.dev"
	_, err = svc.CreateUser(ctx, dupEmail)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc := NewUserService(storage.NewMemoryStore())

	in := userInput("al")
	in.Email = "not-an-email"
	in.ExperienceLevel = "guru"

	_, err := svc.CreateUser(context.Background(), in)
	require.Error(t, err)
	apiErr := apperrors.AsAPIError(err)
	assert.Equal(t, apperrors.CodeValidation, apiErr.Code)

	details, ok := apiErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "experienceLevel")
}

func TestUserServiceCreateStoreRace(t *testing.T) {
	store := new(MockStore)
	svc := NewUserService(store)
	ctx := context.Background()

	store.On("GetUserByUsername", ctx, "alice").Return(nil, nil)
	store.On("GetUserByEmail", ctx, "alice@codebros.dev").Return(nil, nil)
	store.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).Return(storage.ErrDuplicateUser)

	_, err := svc.CreateUser(ctx, userInput("alice"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	store.AssertExpectations(t)
}

func TestUserServiceGetAndUpdate(t *testing.T) {
	svc := NewUserService(storage.NewMemoryStore())
	ctx := context.Background()
	users := mustCreateUsers(t, svc, "alice", "bob")

	_, err := svc.GetUser(ctx, 999)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	bio := "Gopher"
	updated, err := svc.UpdateUser(ctx, users[0].ID, models.UserUpdate{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "Gopher", *updated.Bio)
	assert.Equal(t, "alice", updated.Username)

	taken := "bob"
	_, err = svc.UpdateUser(ctx, users[0].ID, models.UserUpdate{Username: &taken})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	// keeping your own username is not a conflict
	same := "alice"
	_, err = svc.UpdateUser(ctx, users[0].ID, models.UserUpdate{Username: &same})
	assert.NoError(t, err)

	_, err = svc.UpdateUser(ctx, 999, models.UserUpdate{Bio: &bio})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	bad := models.ExperienceLevel("guru")
	_, err = svc.UpdateUser(ctx, users[0].ID, models.UserUpdate{ExperienceLevel: &bad})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestUserServiceSearch(t *testing.T) {
	svc := NewUserService(storage.NewMemoryStore())
	ctx := context.Background()

	alice := userInput("alice")
	alice.FirstName = "Alice"
	alice.Skills = []string{"React", "TypeScript"}
	alice.ExperienceLevel = models.ExperienceProfessional
	alice.OpenToCollaborate = true

	bob := userInput("bob")
	bob.FirstName = "Bob"
	bob.Title = "Rust Engineer"
	bob.Skills = []string{"Rust", "Go"}
	bob.ExperienceLevel = models.ExperienceBeginner

	for _, in := range []CreateUserInput{alice, bob} {
		_, err := svc.CreateUser(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.SearchUsers(ctx, models.UserSearch{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byQuery, err := svc.SearchUsers(ctx, models.UserSearch{Query: "rust"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "bob", byQuery[0].Username)

	bySkill, err := svc.SearchUsers(ctx, models.UserSearch{Skills: []string{"script"}})
	require.NoError(t, err)
	require.Len(t, bySkill, 1)
	assert.Equal(t, "alice", bySkill[0].Username)

	byLevel, err := svc.SearchUsers(ctx, models.UserSearch{
		ExperienceLevels: []models.ExperienceLevel{models.ExperienceBeginner, models.ExperienceIntermediate},
	})
	require.NoError(t, err)
	require.Len(t, byLevel, 1)
	assert.Equal(t, "bob", byLevel[0].Username)

	open, err := svc.SearchUsers(ctx, models.UserSearch{OpenToCollaborate: true, Query: "a"})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "alice", open[0].Username)

	online, err := svc.SearchUsers(ctx, models.UserSearch{IsOnline: true})
	require.NoError(t, err)
	assert.Empty(t, online)

	_, err = svc.SearchUsers(ctx, models.UserSearch{ExperienceLevels: []models.ExperienceLevel{"guru"}})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestUserServiceOnlineStatus(t *testing.T) {
	svc := NewUserService(storage.NewMemoryStore())
	ctx := context.Background()
	users := mustCreateUsers(t, svc, "alice")

	require.NoError(t, svc.SetOnlineStatus(ctx, users[0].ID, true))
	got, err := svc.GetUser(ctx, users[0].ID)
	require.NoError(t, err)
	assert.True(t, got.IsOnline)

	err = svc.SetOnlineStatus(ctx, 999, true)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestUserServiceLogin(t *testing.T) {
	svc := NewUserService(storage.NewMemoryStore())
	ctx := context.Background()
	mustCreateUsers(t, svc, "alice")

	user, err := svc.Login(ctx, "alice@codebros.dev", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Login(ctx, "alice@codebros.dev", "wrong")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, err = svc.Login(ctx, "nobody@codebros.dev", "password123")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestUserServiceLoginStoreError(t *testing.T) {
	store := new(MockStore)
	svc := NewUserService(store)
	ctx := context.Background()

	store.On("GetUserByEmail", ctx, "alice@codebros.dev").Return(nil, errors.New("connection reset"))

	_, err := svc.Login(ctx, "alice@codebros.dev", "password123")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInternal, apperrors.AsAPIError(err).Code)
}

func TestUserServiceMutualConnections(t *testing.T) {
	store := storage.NewMemoryStore()
	users := NewUserService(store)
	conns := NewConnectionService(store)
	ctx := context.Background()

	u := mustCreateUsers(t, users, "alice", "bob", "carol", "dave", "erin")
	alice, bob, carol, dave, erin := u[0].ID, u[1].ID, u[2].ID, u[3].ID, u[4].ID

	connect := func(a, b uint, accept bool) {
		c, err := conns.CreateConnection(ctx, CreateConnectionInput{RequesterID: a, ReceiverID: b})
		require.NoError(t, err)
		if accept {
			_, err = conns.UpdateStatus(ctx, c.ID, nil, UpdateConnectionStatusInput{Status: models.ConnectionStatusAccepted})
			require.NoError(t, err)
		}
	}
	// alice and bob both know carol and dave; erin is only pending with bob
	connect(alice, carol, true)
	connect(dave, alice, true)
	connect(bob, carol, true)
	connect(bob, dave, true)
	connect(alice, erin, true)
	connect(erin, bob, false)

	page, err := users.GetMutualConnections(ctx, alice, bob, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Total)
	assert.Equal(t, DefaultPageLimit, page.Pagination.Limit)
	require.Len(t, page.Data, 2)
	assert.Equal(t, carol, page.Data[0].ID)
	assert.Equal(t, dave, page.Data[1].ID)

	second, err := users.GetMutualConnections(ctx, alice, bob, 1, 1)
	require.NoError(t, err)
	require.Len(t, second.Data, 1)
	assert.Equal(t, dave, second.Data[0].ID)

	past, err := users.GetMutualConnections(ctx, alice, bob, 10, 500)
	require.NoError(t, err)
	assert.Empty(t, past.Data)
	assert.Equal(t, MaxPageLimit, past.Pagination.Limit)

	_, err = users.GetMutualConnections(ctx, alice, 999, 0, 10)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
