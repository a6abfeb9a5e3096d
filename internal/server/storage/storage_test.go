package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedisStore 创建基于 miniredis 的测试存储
func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func newTestLeaderboard(t *testing.T) *LeaderboardManager {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLeaderboardManager(client)
}

func TestSaveAndLoadRoom(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	data := &RoomData{
		Code:  "ABC123",
		State: 1,
		Players: []PlayerData{
			{ID: "p1", Name: "玩家一", Seat: 0, Ready: true},
			{ID: "p2", Name: "玩家二", Seat: 1, Ready: true, Declared: true},
		},
		PlayerOrder: []string{"p1", "p2"},
		CreatedAt:   1700000000,
	}

	require.NoError(t, store.SaveRoom(ctx, "ABC123", data))

	loaded, err := store.LoadRoom(ctx, "ABC123")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "ABC123", loaded.Code)
	assert.Equal(t, 1, loaded.State)
	assert.Len(t, loaded.Players, 2)
	assert.Equal(t, "玩家二", loaded.Players[1].Name)
	assert.True(t, loaded.Players[1].Declared)
	assert.Equal(t, []string{"p1", "p2"}, loaded.PlayerOrder)
}

func TestLoadRoomNotFound(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)

	loaded, err := store.LoadRoom(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDeleteRoom(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, "XYZ789", &RoomData{Code: "XYZ789"}))
	require.NoError(t, store.DeleteRoom(ctx, "XYZ789"))

	loaded, err := store.LoadRoom(ctx, "XYZ789")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestGetAllRoomCodes(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, "AAA111", &RoomData{Code: "AAA111"}))
	require.NoError(t, store.SaveRoom(ctx, "BBB222", &RoomData{Code: "BBB222"}))

	codes, err := store.GetAllRoomCodes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAA111", "BBB222"}, codes)
}

func TestSaveAndLoadSession(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	session := &PlayerSessionData{
		PlayerID:       "player-1",
		PlayerName:     "快乐的熊猫",
		ReconnectToken: "deadbeef",
		RoomCode:       "ROOM01",
		IsOnline:       true,
	}

	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err := store.LoadSession(ctx, "player-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "player-1", loaded.PlayerID)
	assert.Equal(t, "快乐的熊猫", loaded.PlayerName)
	assert.Equal(t, "deadbeef", loaded.ReconnectToken)
	assert.Equal(t, "ROOM01", loaded.RoomCode)
	assert.True(t, loaded.IsOnline)
}

func TestLoadSessionNotFound(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)

	loaded, err := store.LoadSession(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDeleteSession(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, &PlayerSessionData{PlayerID: "p1"}))
	require.NoError(t, store.DeleteSession(ctx, "p1"))

	loaded, err := store.LoadSession(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRecordResultAndStats(t *testing.T) {
	t.Parallel()
	lm := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lm.RecordResult(ctx, "p1", "玩家一", true, false))
	require.NoError(t, lm.RecordResult(ctx, "p1", "玩家一", true, false))
	require.NoError(t, lm.RecordResult(ctx, "p1", "玩家一", false, false))
	require.NoError(t, lm.RecordResult(ctx, "p1", "玩家一", false, true))

	stats, err := lm.GetPlayerStats(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 4, stats.TotalGames)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Draws)
}

func TestGetPlayerStatsNotFound(t *testing.T) {
	t.Parallel()
	lm := newTestLeaderboard(t)

	stats, err := lm.GetPlayerStats(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestLeaderboardOrdering(t *testing.T) {
	t.Parallel()
	lm := newTestLeaderboard(t)
	ctx := context.Background()

	// p1 两胜，p2 一胜，p3 零胜
	require.NoError(t, lm.RecordResult(ctx, "p1", "甲", true, false))
	require.NoError(t, lm.RecordResult(ctx, "p1", "甲", true, false))
	require.NoError(t, lm.RecordResult(ctx, "p2", "乙", true, false))
	require.NoError(t, lm.RecordResult(ctx, "p3", "丙", false, false))

	entries, err := lm.GetLeaderboard(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "p1", entries[0].PlayerID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[0].Wins)
	assert.Equal(t, "甲", entries[0].PlayerName)

	assert.Equal(t, "p2", entries[1].PlayerID)
	assert.Equal(t, 2, entries[1].Rank)

	assert.Equal(t, "p3", entries[2].PlayerID)
	assert.Equal(t, 0, entries[2].Wins)
}

func TestLeaderboardPagination(t *testing.T) {
	t.Parallel()
	lm := newTestLeaderboard(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		for j := 0; j <= i; j++ {
			require.NoError(t, lm.RecordResult(ctx, id, id, true, false))
		}
	}

	entries, err := lm.GetLeaderboard(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].Rank)
	assert.Equal(t, "c", entries[0].PlayerID)
	assert.Equal(t, 4, entries[1].Rank)
}

func TestGetPlayerRank(t *testing.T) {
	t.Parallel()
	lm := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lm.RecordResult(ctx, "p1", "甲", true, false))
	require.NoError(t, lm.RecordResult(ctx, "p1", "甲", true, false))
	require.NoError(t, lm.RecordResult(ctx, "p2", "乙", true, false))

	rank, err := lm.GetPlayerRank(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank)

	rank, err = lm.GetPlayerRank(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rank)
}

func TestGetTotalPlayers(t *testing.T) {
	t.Parallel()
	lm := newTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lm.RecordResult(ctx, "p1", "甲", true, false))
	require.NoError(t, lm.RecordResult(ctx, "p2", "乙", false, false))

	total, err := lm.GetTotalPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
