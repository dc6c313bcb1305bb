package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type AnswerEvaluationRepo interface {
	// Insert writes the validity half of an evaluation. The coherence flag is
	// added later with UpdateCoherence on the same row.
	Insert(ctx context.Context, tx *gorm.DB, eval *types.AnswerEvaluation) (*types.AnswerEvaluation, error)
	UpdateCoherence(ctx context.Context, tx *gorm.DB, answerID, llmID uuid.UUID, coherent bool) error
	GetByAnswerAndEvaluator(ctx context.Context, tx *gorm.DB, answerID, llmID uuid.UUID) (*types.AnswerEvaluation, error)
	ListByAnswer(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) ([]*types.AnswerEvaluation, error)
}

type answerEvaluationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerEvaluationRepo(db *gorm.DB, baseLog *logger.Logger) AnswerEvaluationRepo {
	repoLog := baseLog.With("repo", "AnswerEvaluationRepo")
	return &answerEvaluationRepo{db: db, log: repoLog}
}

func (er *answerEvaluationRepo) Insert(ctx context.Context, tx *gorm.DB, eval *types.AnswerEvaluation) (*types.AnswerEvaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if err := transaction.WithContext(ctx).Create(eval).Error; err != nil {
		return nil, err
	}
	return eval, nil
}

func (er *answerEvaluationRepo) UpdateCoherence(ctx context.Context, tx *gorm.DB, answerID, llmID uuid.UUID, coherent bool) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	return transaction.WithContext(ctx).
		Model(&types.AnswerEvaluation{}).
		Where("answer_id = ? AND llm_id = ?", answerID, llmID).
		Update("coherence_qa", coherent).Error
}

func (er *answerEvaluationRepo) GetByAnswerAndEvaluator(ctx context.Context, tx *gorm.DB, answerID, llmID uuid.UUID) (*types.AnswerEvaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var result types.AnswerEvaluation
	err := transaction.WithContext(ctx).
		Where("answer_id = ? AND llm_id = ?", answerID, llmID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *answerEvaluationRepo) ListByAnswer(ctx context.Context, tx *gorm.DB, answerID uuid.UUID) ([]*types.AnswerEvaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.AnswerEvaluation
	if err := transaction.WithContext(ctx).
		Where("answer_id = ?", answerID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
