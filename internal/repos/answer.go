package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type AnswerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, answers []*types.Answer) ([]*types.Answer, error)
	GetByID(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) (*types.Answer, error)
	UpdateEvalState(ctx context.Context, tx *gorm.DB, answerID uuid.UUID, state string) error
	// ListForValidation returns answers to a question that the given user did
	// not write and has not rated yet, least-rated first.
	ListForValidation(ctx context.Context, tx *gorm.DB, questionID uuid.UUID, userID *uuid.UUID) ([]*types.Answer, error)
	ListByQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.Answer, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Answer, error)
	CountByQuestionAndType(ctx context.Context, tx *gorm.DB, questionID uuid.UUID, answerType string) (int64, error)
	// GetRandomToValidate picks one (answer, question) pair the user has
	// neither written nor rated, preferring answers with the fewest ratings.
	GetRandomToValidate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID) (*types.Answer, error)
}

type answerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRepo {
	repoLog := baseLog.With("repo", "AnswerRepo")
	return &answerRepo{db: db, log: repoLog}
}

func (ar *answerRepo) Create(ctx context.Context, tx *gorm.DB, answers []*types.Answer) ([]*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(answers) == 0 {
		return []*types.Answer{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (ar *answerRepo) GetByID(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) (*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.Answer
	err := transaction.WithContext(ctx).
		Where("id = ?", answerID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *answerRepo) UpdateEvalState(ctx context.Context, tx *gorm.DB, answerID uuid.UUID, state string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Answer{}).
		Where("id = ?", answerID).
		Update("eval_state", state).Error
}

func (ar *answerRepo) ListForValidation(ctx context.Context, tx *gorm.DB, questionID uuid.UUID, userID *uuid.UUID) ([]*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Answer{}).
		Where("answers.question_id = ?", questionID)
	if userID != nil {
		query = query.
			Where("answers.user_id IS NULL OR answers.user_id <> ?", *userID).
			Where("NOT EXISTS (SELECT 1 FROM ratings r WHERE r.answer_id = answers.id AND r.user_id = ?)", *userID)
	}

	var results []*types.Answer
	if err := query.
		Select("answers.*").
		Joins("LEFT JOIN ratings r_all ON r_all.answer_id = answers.id").
		Group("answers.id").
		Order("COUNT(r_all.id) ASC, " + randExpr(transaction)).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *answerRepo) ListByQuestion(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Answer
	if err := transaction.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *answerRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Answer
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *answerRepo) CountByQuestionAndType(ctx context.Context, tx *gorm.DB, questionID uuid.UUID, answerType string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Answer{}).
		Where("question_id = ? AND type = ?", questionID, answerType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ar *answerRepo) GetRandomToValidate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID) (*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	query := transaction.WithContext(ctx).Model(&types.Answer{})
	if userID != nil {
		query = query.
			Where("answers.user_id IS NULL OR answers.user_id <> ?", *userID).
			Where("NOT EXISTS (SELECT 1 FROM ratings r_check WHERE r_check.answer_id = answers.id AND r_check.user_id = ?)", *userID)
	}

	var result types.Answer
	err := query.
		Select("answers.*").
		Joins("LEFT JOIN ratings r ON r.answer_id = answers.id").
		Group("answers.id").
		Order("COUNT(r.id) ASC, " + randExpr(transaction)).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
