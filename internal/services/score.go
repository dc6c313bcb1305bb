package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
)

// Points awarded per contribution kind.
const (
	questionPoints = 10
	answerPoints   = 5
	ratingPoints   = 2
)

// ScoreService feeds the leaderboard's score records. Anonymous and
// llm-authored contributions award nothing (nil userID is a no-op).
type ScoreService interface {
	AwardQuestion(ctx context.Context, userID *uuid.UUID) error
	AwardAnswer(ctx context.Context, userID *uuid.UUID) error
	AwardRating(ctx context.Context, userID *uuid.UUID) error
}

type scoreService struct {
	db  *gorm.DB
	log *logger.Logger

	scoreRepo repos.ScoreRepo
}

func NewScoreService(db *gorm.DB, baseLog *logger.Logger, scoreRepo repos.ScoreRepo) ScoreService {
	return &scoreService{
		db:        db,
		log:       baseLog.With("service", "ScoreService"),
		scoreRepo: scoreRepo,
	}
}

func (ss *scoreService) AwardQuestion(ctx context.Context, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}
	if err := ss.scoreRepo.AddPoints(ctx, nil, *userID, questionPoints, 1, 0); err != nil {
		return storageErr("award question points", err)
	}
	return nil
}

func (ss *scoreService) AwardAnswer(ctx context.Context, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}
	if err := ss.scoreRepo.AddPoints(ctx, nil, *userID, answerPoints, 0, 1); err != nil {
		return storageErr("award answer points", err)
	}
	return nil
}

func (ss *scoreService) AwardRating(ctx context.Context, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}
	if err := ss.scoreRepo.AddPoints(ctx, nil, *userID, ratingPoints, 0, 0); err != nil {
		return storageErr("award rating points", err)
	}
	return nil
}
