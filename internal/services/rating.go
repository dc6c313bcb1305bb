package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type RatingService interface {
	// Rate records one rating per (rater, answer). The rating value itself is
	// trusted as provided by the caller. FlagIA records whether the rater
	// believed the answer came from an LLM.
	Rate(ctx context.Context, userID *uuid.UUID, answerID, questionID uuid.UUID, rating int, flagIA bool) (*types.Rating, error)
	ListByAnswer(ctx context.Context, answerID uuid.UUID) ([]*types.Rating, error)
}

type ratingService struct {
	db  *gorm.DB
	log *logger.Logger

	answerRepo repos.AnswerRepo
	ratingRepo repos.RatingRepo

	scoreService ScoreService
}

func NewRatingService(db *gorm.DB, baseLog *logger.Logger, answerRepo repos.AnswerRepo, ratingRepo repos.RatingRepo, scoreService ScoreService) RatingService {
	return &ratingService{
		db:           db,
		log:          baseLog.With("service", "RatingService"),
		answerRepo:   answerRepo,
		ratingRepo:   ratingRepo,
		scoreService: scoreService,
	}
}

func (rs *ratingService) Rate(ctx context.Context, userID *uuid.UUID, answerID, questionID uuid.UUID, rating int, flagIA bool) (*types.Rating, error) {
	answer, err := rs.answerRepo.GetByID(ctx, nil, answerID)
	if err != nil {
		return nil, storageErr("load answer", err)
	}
	if answer == nil {
		return nil, fmt.Errorf("answer %s: %w", answerID, ErrNotFound)
	}

	if userID != nil {
		exists, err := rs.ratingRepo.ExistsForRater(ctx, nil, answerID, *userID)
		if err != nil {
			return nil, storageErr("check existing rating", err)
		}
		if exists {
			return nil, fmt.Errorf("answer %s already rated by user: %w", answerID, ErrConflict)
		}
	}

	record := &types.Rating{
		ID:         uuid.New(),
		AnswerID:   answerID,
		QuestionID: questionID,
		UserID:     userID,
		Rating:     rating,
		FlagIA:     flagIA,
	}
	if _, err := rs.ratingRepo.Create(ctx, nil, []*types.Rating{record}); err != nil {
		return nil, storageErr("insert rating", err)
	}
	if err := rs.scoreService.AwardRating(ctx, userID); err != nil {
		rs.log.Warn("Could not award rating points", "error", err)
	}
	return record, nil
}

func (rs *ratingService) ListByAnswer(ctx context.Context, answerID uuid.UUID) ([]*types.Rating, error) {
	answer, err := rs.answerRepo.GetByID(ctx, nil, answerID)
	if err != nil {
		return nil, storageErr("load answer", err)
	}
	if answer == nil {
		return nil, fmt.Errorf("answer %s: %w", answerID, ErrNotFound)
	}
	ratings, err := rs.ratingRepo.ListByAnswer(ctx, nil, answerID)
	if err != nil {
		return nil, storageErr("list ratings", err)
	}
	return ratings, nil
}
