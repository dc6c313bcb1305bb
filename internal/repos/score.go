package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type ScoreRepo interface {
	// Get returns the user's score record, or nil when the user has never
	// scored. Callers must treat nil as score 0, not as an error.
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ScoreRecord, error)
	ListOrdered(ctx context.Context, tx *gorm.DB) ([]*types.ScoreRecord, error)
	// Position computes the 1-based rank a user with the given (score, id)
	// pair holds: users with a strictly higher score rank above, ties are
	// broken in favour of the lower user id. The result is defined even when
	// the user has no score row.
	Position(ctx context.Context, tx *gorm.DB, userID uuid.UUID, score int) (int, error)
	// AddPoints upserts the user's record, adding points to the score and
	// bumping the denormalized counts.
	AddPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, points, questions, answers int) error
}

type scoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRepo {
	repoLog := baseLog.With("repo", "ScoreRepo")
	return &scoreRepo{db: db, log: repoLog}
}

func (sr *scoreRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ScoreRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.ScoreRecord
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *scoreRepo) ListOrdered(ctx context.Context, tx *gorm.DB) ([]*types.ScoreRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.ScoreRecord
	if err := transaction.WithContext(ctx).
		Order("score DESC, user_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *scoreRepo) Position(ctx context.Context, tx *gorm.DB, userID uuid.UUID, score int) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var ahead int64
	if err := transaction.WithContext(ctx).
		Model(&types.ScoreRecord{}).
		Where("score > ? OR (score = ? AND user_id < ?)", score, score, userID).
		Count(&ahead).Error; err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

func (sr *scoreRepo) AddPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, points, questions, answers int) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	record := &types.ScoreRecord{
		UserID:       userID,
		Score:        points,
		NumQuestions: questions,
		NumAnswers:   answers,
		UpdatedAt:    time.Now(),
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"score":         gorm.Expr("score + ?", points),
				"num_questions": gorm.Expr("num_questions + ?", questions),
				"num_answers":   gorm.Expr("num_answers + ?", answers),
				"updated_at":    time.Now(),
			}),
		}).
		Create(record).Error
}
