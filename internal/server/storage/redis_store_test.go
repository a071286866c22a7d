package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return client, mr
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	roomData := &RoomData{
		Code:   "ABCD",
		Status: "playing",
		Players: []PlayerData{
			{ID: "p1", Name: "Alice", Seat: 0, IsHost: true, CardCount: 7},
			{ID: "p2", Name: "Bob", Seat: 1, CardCount: 7},
		},
		CreatedAt: time.Now().Unix(),
	}

	// Save
	err := store.SaveRoom(ctx, roomData.Code, roomData)
	require.NoError(t, err)

	// Load
	loaded, err := store.LoadRoom(ctx, roomData.Code)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, roomData.Code, loaded.Code)
	assert.Equal(t, roomData.Status, loaded.Status)
	require.Len(t, loaded.Players, 2)
	assert.Equal(t, "Alice", loaded.Players[0].Name)
	assert.True(t, loaded.Players[0].IsHost)

	// Delete
	err = store.DeleteRoom(ctx, roomData.Code)
	require.NoError(t, err)

	// Verify delete
	loaded, err = store.LoadRoom(ctx, roomData.Code)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_LoadMissingRoom(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRedisStore(client)

	loaded, err := store.LoadRoom(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_SaveNilIsNoop(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRedisStore(client)

	err := store.SaveRoom(context.Background(), "ABCD", nil)
	require.NoError(t, err)

	loaded, err := store.LoadRoom(context.Background(), "ABCD")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_GetAllRoomCodes(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, "AAAA", &RoomData{Code: "AAAA"}))
	require.NoError(t, store.SaveRoom(ctx, "BBBB", &RoomData{Code: "BBBB"}))

	codes, err := store.GetAllRoomCodes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAAA", "BBBB"}, codes)
}

func TestLeaderboard_RecordAndQuery(t *testing.T) {
	client, _ := newTestRedis(t)
	lm := NewLeaderboardManager(client)
	ctx := context.Background()

	require.NoError(t, lm.RecordWin(ctx, "Alice"))
	require.NoError(t, lm.RecordWin(ctx, "Alice"))
	require.NoError(t, lm.RecordWin(ctx, "Bob"))

	entries, err := lm.TopWins(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Alice", entries[0].Name)
	assert.Equal(t, 2, entries[0].Wins)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "Bob", entries[1].Name)
	assert.Equal(t, 1, entries[1].Wins)
}

func TestLeaderboard_EmptyNameIgnored(t *testing.T) {
	client, _ := newTestRedis(t)
	lm := NewLeaderboardManager(client)
	ctx := context.Background()

	require.NoError(t, lm.RecordWin(ctx, ""))

	entries, err := lm.TopWins(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboard_LimitDefaultsWhenZero(t *testing.T) {
	client, _ := newTestRedis(t)
	lm := NewLeaderboardManager(client)
	ctx := context.Background()

	require.NoError(t, lm.RecordWin(ctx, "Alice"))

	entries, err := lm.TopWins(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
