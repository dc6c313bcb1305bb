package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
}

// LeaderboardService is a read-only view over the score records: it never
// mutates them. Rank is a total order: score descending, ties broken by the
// lower user id.
type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]*LeaderboardEntry, error)
	// Position works for any user: one without a score record ranks as if
	// their score were zero instead of failing the lookup.
	Position(ctx context.Context, userID uuid.UUID) (*LeaderboardEntry, error)
	LevelInfo(score int) types.LevelInfo
}

type leaderboardService struct {
	db  *gorm.DB
	log *logger.Logger

	scoreRepo repos.ScoreRepo
	userRepo  repos.UserRepo
}

func NewLeaderboardService(db *gorm.DB, baseLog *logger.Logger, scoreRepo repos.ScoreRepo, userRepo repos.UserRepo) LeaderboardService {
	return &leaderboardService{
		db:        db,
		log:       baseLog.With("service", "LeaderboardService"),
		scoreRepo: scoreRepo,
		userRepo:  userRepo,
	}
}

func (ls *leaderboardService) Leaderboard(ctx context.Context) ([]*LeaderboardEntry, error) {
	records, err := ls.scoreRepo.ListOrdered(ctx, nil)
	if err != nil {
		return nil, storageErr("list scores", err)
	}

	userIDs := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		userIDs = append(userIDs, record.UserID)
	}
	users, err := ls.userRepo.GetByIDs(ctx, nil, userIDs)
	if err != nil {
		return nil, storageErr("load users", err)
	}
	usernames := make(map[uuid.UUID]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
	}

	entries := make([]*LeaderboardEntry, 0, len(records))
	for i, record := range records {
		entries = append(entries, &LeaderboardEntry{
			Username: usernames[record.UserID],
			Score:    record.Score,
			Position: i + 1,
		})
	}
	return entries, nil
}

func (ls *leaderboardService) Position(ctx context.Context, userID uuid.UUID) (*LeaderboardEntry, error) {
	users, err := ls.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, storageErr("load user", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}

	score := 0
	record, err := ls.scoreRepo.Get(ctx, nil, userID)
	if err != nil {
		return nil, storageErr("load score", err)
	}
	if record != nil {
		score = record.Score
	}

	position, err := ls.scoreRepo.Position(ctx, nil, userID, score)
	if err != nil {
		return nil, storageErr("compute position", err)
	}
	return &LeaderboardEntry{
		Username: users[0].Username,
		Score:    score,
		Position: position,
	}, nil
}

func (ls *leaderboardService) LevelInfo(score int) types.LevelInfo {
	return levelForScore(score)
}
