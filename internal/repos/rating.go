package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type RatingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ratings []*types.Rating) ([]*types.Rating, error)
	ExistsForRater(ctx context.Context, tx *gorm.DB, answerID, userID uuid.UUID) (bool, error)
	ListByAnswer(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) ([]*types.Rating, error)
}

type ratingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRatingRepo(db *gorm.DB, baseLog *logger.Logger) RatingRepo {
	repoLog := baseLog.With("repo", "RatingRepo")
	return &ratingRepo{db: db, log: repoLog}
}

func (rr *ratingRepo) Create(ctx context.Context, tx *gorm.DB, ratings []*types.Rating) ([]*types.Rating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(ratings) == 0 {
		return []*types.Rating{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (rr *ratingRepo) ExistsForRater(ctx context.Context, tx *gorm.DB, answerID, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Rating{}).
		Where("answer_id = ? AND user_id = ?", answerID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (rr *ratingRepo) ListByAnswer(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) ([]*types.Rating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Rating
	if err := transaction.WithContext(ctx).
		Where("answer_id = ?", answerID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
