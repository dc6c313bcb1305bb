package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type AnswerService interface {
	// Submit writes the answer synchronously and detaches its evaluation
	// pipeline. Fails with ErrNotFound when the question does not exist.
	Submit(ctx context.Context, userID *uuid.UUID, questionID uuid.UUID, text, answerType string) (*types.Answer, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Answer, error)
	Evaluations(ctx context.Context, answerID uuid.UUID) ([]*types.AnswerEvaluation, error)
}

type answerService struct {
	db  *gorm.DB
	log *logger.Logger

	questionRepo repos.QuestionRepo
	answerRepo   repos.AnswerRepo
	evalRepo     repos.AnswerEvaluationRepo

	scoreService ScoreService
	evaluation   EvaluationService
	dispatcher   Dispatcher
}

func NewAnswerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	questionRepo repos.QuestionRepo,
	answerRepo repos.AnswerRepo,
	evalRepo repos.AnswerEvaluationRepo,
	scoreService ScoreService,
	evaluation EvaluationService,
	dispatcher Dispatcher,
) AnswerService {
	return &answerService{
		db:           db,
		log:          baseLog.With("service", "AnswerService"),
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		evalRepo:     evalRepo,
		scoreService: scoreService,
		evaluation:   evaluation,
		dispatcher:   dispatcher,
	}
}

func (as *answerService) Submit(ctx context.Context, userID *uuid.UUID, questionID uuid.UUID, text, answerType string) (*types.Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("answer text is required: %w", ErrInvalidInput)
	}
	if answerType != types.AuthorHuman && answerType != types.AuthorLLM {
		return nil, fmt.Errorf("unknown answer type %q: %w", answerType, ErrInvalidInput)
	}
	if answerType == types.AuthorHuman && userID == nil {
		return nil, fmt.Errorf("human answers require a logged-in user: %w", ErrUnauthorized)
	}
	if answerType == types.AuthorLLM {
		userID = nil
	}

	question, err := as.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		return nil, storageErr("load question", err)
	}
	if question == nil {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrNotFound)
	}

	answer := &types.Answer{
		ID:         uuid.New(),
		QuestionID: questionID,
		UserID:     userID,
		Text:       text,
		Type:       answerType,
		EvalState:  types.AnswerEvalCreated,
	}
	if _, err := as.answerRepo.Create(ctx, nil, []*types.Answer{answer}); err != nil {
		return nil, storageErr("insert answer", err)
	}
	if err := as.scoreService.AwardAnswer(ctx, userID); err != nil {
		as.log.Warn("Could not award answer points", "error", err)
	}

	answerID := answer.ID
	as.dispatcher.Submit("answer-evaluation:"+answerID.String(), func(taskCtx context.Context) {
		if err := as.evaluation.EvaluateAnswer(taskCtx, answerID); err != nil {
			as.log.Error("Answer evaluation pipeline failed", "answer_id", answerID.String(), "error", err)
		}
	})

	return answer, nil
}

func (as *answerService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Answer, error) {
	answers, err := as.answerRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, storageErr("list user answers", err)
	}
	return answers, nil
}

func (as *answerService) Evaluations(ctx context.Context, answerID uuid.UUID) ([]*types.AnswerEvaluation, error) {
	answer, err := as.answerRepo.GetByID(ctx, nil, answerID)
	if err != nil {
		return nil, storageErr("load answer", err)
	}
	if answer == nil {
		return nil, fmt.Errorf("answer %s: %w", answerID, ErrNotFound)
	}
	evaluations, err := as.evalRepo.ListByAnswer(ctx, nil, answerID)
	if err != nil {
		return nil, storageErr("list answer evaluations", err)
	}
	return evaluations, nil
}
