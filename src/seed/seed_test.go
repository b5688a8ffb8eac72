package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebros/codebros-backend/src/models"
	"github.com/codebros/codebros-backend/src/storage"
)

func TestSampleDataParses(t *testing.T) {
	data, err := SampleData()
	require.NoError(t, err)
	assert.Len(t, data.Users, 4)
	assert.Len(t, data.Connections, 2)
	assert.Len(t, data.Messages, 2)
	assert.Equal(t, "Dakshata_Borse", data.Users[0].Username)
}

func TestLoadIntoEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	data, err := SampleData()
	require.NoError(t, err)

	loaded, err := Load(ctx, store, data)
	require.NoError(t, err)
	assert.True(t, loaded)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)

	dakshata, meghana := users[0].ID, users[1].ID
	conn, err := store.GetConnection(ctx, meghana, dakshata)
	require.NoError(t, err)
	require.NotNil(t, conn)
	assert.Equal(t, models.ConnectionStatusAccepted, conn.Status)

	thread, err := store.ListMessagesBetween(ctx, dakshata, meghana)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, dakshata, thread[0].SenderID)

	again, err := Load(ctx, store, data)
	require.NoError(t, err)
	assert.False(t, again)

	users, err = store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)
}

func TestLoadRejectsUnknownReferences(t *testing.T) {
	data, err := Parse([]byte(`
users:
  - username: alice
    email: alice@example.com
    password: pw
connections:
  - requester: alice
    receiver: ghost
    status: pending
`))
	require.NoError(t, err)

	_, err = Load(context.Background(), storage.NewMemoryStore(), data)
	assert.ErrorContains(t, err, `unknown user "ghost"`)
}
