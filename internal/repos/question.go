package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questions []*types.Question) ([]*types.Question, error)
	GetByID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Question, error)
	// UpdateEvaluation writes a pipeline step's output onto the question row.
	UpdateEvaluation(ctx context.Context, tx *gorm.DB, questionID uuid.UUID, fields map[string]any) error
	// GetRandomAnswered returns a random question that has at least one answer.
	GetRandomAnswered(ctx context.Context, tx *gorm.DB) (*types.Question, error)
	// GetRandomToAnswer returns a random question the given user neither wrote
	// nor already answered. A nil userID applies no exclusions.
	GetRandomToAnswer(ctx context.Context, tx *gorm.DB, userID *uuid.UUID) (*types.Question, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Question, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (qr *questionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.Question) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if len(questions) == 0 {
		return []*types.Question{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (qr *questionRepo) GetByID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var result types.Question
	err := transaction.WithContext(ctx).
		Where("id = ?", questionID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (qr *questionRepo) UpdateEvaluation(ctx context.Context, tx *gorm.DB, questionID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Question{}).
		Where("id = ?", questionID).
		Updates(fields).Error
}

func (qr *questionRepo) GetRandomAnswered(ctx context.Context, tx *gorm.DB) (*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var result types.Question
	err := transaction.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM answers a WHERE a.question_id = questions.id)").
		Order(randExpr(transaction)).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (qr *questionRepo) GetRandomToAnswer(ctx context.Context, tx *gorm.DB, userID *uuid.UUID) (*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	query := transaction.WithContext(ctx).Model(&types.Question{})
	if userID != nil {
		query = query.
			Where("user_id IS NULL OR user_id <> ?", *userID).
			Where("id NOT IN (SELECT a.question_id FROM answers a WHERE a.user_id = ?)", *userID)
	}

	var result types.Question
	err := query.Order(randExpr(transaction)).First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (qr *questionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	var results []*types.Question
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
