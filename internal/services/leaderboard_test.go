package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
)

func TestLeaderboard_OrdersByScoreThenUserID(t *testing.T) {
	gdb := newTestDB(t)
	log := logger.NewNop()
	scoreRepo := repos.NewScoreRepo(gdb, log)
	userRepo := repos.NewUserRepo(gdb, log)
	ls := NewLeaderboardService(gdb, log, scoreRepo, userRepo)
	ctx := context.Background()

	lowID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	highID := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	thirdID := uuid.MustParse("00000000-0000-0000-0000-000000000003")
	createTestUser(t, gdb, lowID, "alice")
	createTestUser(t, gdb, highID, "bob")
	createTestUser(t, gdb, thirdID, "carol")

	require.NoError(t, scoreRepo.AddPoints(ctx, nil, highID, 100, 0, 0))
	require.NoError(t, scoreRepo.AddPoints(ctx, nil, lowID, 100, 0, 0))
	require.NoError(t, scoreRepo.AddPoints(ctx, nil, thirdID, 40, 0, 0))

	entries, err := ls.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Tied at 100: the lower user id wins.
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, 2, entries[1].Position)
	assert.Equal(t, "carol", entries[2].Username)
	assert.Equal(t, 3, entries[2].Position)
}

func TestPosition_MatchesLeaderboardOrder(t *testing.T) {
	gdb := newTestDB(t)
	log := logger.NewNop()
	scoreRepo := repos.NewScoreRepo(gdb, log)
	userRepo := repos.NewUserRepo(gdb, log)
	ls := NewLeaderboardService(gdb, log, scoreRepo, userRepo)
	ctx := context.Background()

	ids := []uuid.UUID{
		uuid.MustParse("00000000-0000-0000-0000-00000000000a"),
		uuid.MustParse("00000000-0000-0000-0000-00000000000b"),
		uuid.MustParse("00000000-0000-0000-0000-00000000000c"),
		uuid.MustParse("00000000-0000-0000-0000-00000000000d"),
	}
	names := []string{"u1", "u2", "u3", "u4"}
	scores := []int{70, 70, 120, 5}
	for i, id := range ids {
		createTestUser(t, gdb, id, names[i])
		require.NoError(t, scoreRepo.AddPoints(ctx, nil, id, scores[i], 0, 0))
	}

	entries, err := ls.Leaderboard(ctx)
	require.NoError(t, err)
	for _, entry := range entries {
		var id uuid.UUID
		for i, name := range names {
			if name == entry.Username {
				id = ids[i]
			}
		}
		single, err := ls.Position(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entry.Position, single.Position, "user %s", entry.Username)
		assert.Equal(t, entry.Score, single.Score, "user %s", entry.Username)
	}
}

func TestPosition_UserWithoutScoreRecord(t *testing.T) {
	gdb := newTestDB(t)
	log := logger.NewNop()
	scoreRepo := repos.NewScoreRepo(gdb, log)
	userRepo := repos.NewUserRepo(gdb, log)
	ls := NewLeaderboardService(gdb, log, scoreRepo, userRepo)
	ctx := context.Background()

	scoredID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	newcomerID := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	createTestUser(t, gdb, scoredID, "veteran")
	createTestUser(t, gdb, newcomerID, "newcomer")
	require.NoError(t, scoreRepo.AddPoints(ctx, nil, scoredID, 30, 0, 0))

	entry, err := ls.Position(ctx, newcomerID)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Score)
	assert.Equal(t, 2, entry.Position)
}

func TestPosition_UnknownUser(t *testing.T) {
	gdb := newTestDB(t)
	log := logger.NewNop()
	ls := NewLeaderboardService(gdb, log, repos.NewScoreRepo(gdb, log), repos.NewUserRepo(gdb, log))

	_, err := ls.Position(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLevelInfo_ZeroScore(t *testing.T) {
	gdb := newTestDB(t)
	log := logger.NewNop()
	ls := NewLeaderboardService(gdb, log, repos.NewScoreRepo(gdb, log), repos.NewUserRepo(gdb, log))

	info := ls.LevelInfo(0)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, 50, info.NextThreshold)
}
