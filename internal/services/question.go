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

// RatingPrompt is one (question, answer) pair handed to a user for rating.
type RatingPrompt struct {
	AnswerID   uuid.UUID `json:"answer_id"`
	QuestionID uuid.UUID `json:"question_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Topic      string    `json:"topic"`
}

type QuestionService interface {
	// Submit writes the question synchronously, awards points, and detaches
	// the evaluation pipeline. The caller gets its response before any NLP
	// call happens; pipeline failures never reach it.
	Submit(ctx context.Context, userID *uuid.UUID, text, topic, questionType string) (*types.Question, error)
	GetByID(ctx context.Context, questionID uuid.UUID) (*types.Question, error)
	RandomAnswered(ctx context.Context) (*types.Question, error)
	RandomToAnswer(ctx context.Context, userID *uuid.UUID) (*types.Question, error)
	AnswersToValidate(ctx context.Context, questionID uuid.UUID, userID *uuid.UUID) ([]*types.Answer, error)
	RandomQAToValidate(ctx context.Context, userID *uuid.UUID) (*RatingPrompt, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Question, error)
}

type questionService struct {
	db  *gorm.DB
	log *logger.Logger

	questionRepo repos.QuestionRepo
	answerRepo   repos.AnswerRepo

	scoreService ScoreService
	evaluation   EvaluationService
	dispatcher   Dispatcher
}

func NewQuestionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	questionRepo repos.QuestionRepo,
	answerRepo repos.AnswerRepo,
	scoreService ScoreService,
	evaluation EvaluationService,
	dispatcher Dispatcher,
) QuestionService {
	return &questionService{
		db:           db,
		log:          baseLog.With("service", "QuestionService"),
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		scoreService: scoreService,
		evaluation:   evaluation,
		dispatcher:   dispatcher,
	}
}

func (qs *questionService) Submit(ctx context.Context, userID *uuid.UUID, text, topic, questionType string) (*types.Question, error) {
	text = strings.TrimSpace(text)
	topic = strings.TrimSpace(topic)
	if text == "" || topic == "" {
		return nil, fmt.Errorf("question and topic are required: %w", ErrInvalidInput)
	}
	if questionType != types.AuthorHuman && questionType != types.AuthorLLM {
		return nil, fmt.Errorf("unknown question type %q: %w", questionType, ErrInvalidInput)
	}
	if questionType == types.AuthorHuman && userID == nil {
		return nil, fmt.Errorf("human questions require a logged-in user: %w", ErrUnauthorized)
	}
	if questionType == types.AuthorLLM {
		userID = nil
	}

	question := &types.Question{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		Topic:     topic,
		Type:      questionType,
		EvalState: types.QuestionEvalCreated,
	}
	if _, err := qs.questionRepo.Create(ctx, nil, []*types.Question{question}); err != nil {
		return nil, storageErr("insert question", err)
	}
	if err := qs.scoreService.AwardQuestion(ctx, userID); err != nil {
		qs.log.Warn("Could not award question points", "error", err)
	}

	questionID := question.ID
	qs.dispatcher.Submit("question-evaluation:"+questionID.String(), func(taskCtx context.Context) {
		if err := qs.evaluation.EvaluateQuestion(taskCtx, questionID); err != nil {
			qs.log.Error("Question evaluation pipeline failed", "question_id", questionID.String(), "error", err)
		}
	})

	return question, nil
}

func (qs *questionService) GetByID(ctx context.Context, questionID uuid.UUID) (*types.Question, error) {
	question, err := qs.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		return nil, storageErr("load question", err)
	}
	if question == nil {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrNotFound)
	}
	return question, nil
}

func (qs *questionService) RandomAnswered(ctx context.Context) (*types.Question, error) {
	question, err := qs.questionRepo.GetRandomAnswered(ctx, nil)
	if err != nil {
		return nil, storageErr("pick random question", err)
	}
	if question == nil {
		return nil, fmt.Errorf("no answered question available: %w", ErrNotFound)
	}
	return question, nil
}

func (qs *questionService) RandomToAnswer(ctx context.Context, userID *uuid.UUID) (*types.Question, error) {
	question, err := qs.questionRepo.GetRandomToAnswer(ctx, nil, userID)
	if err != nil {
		return nil, storageErr("pick question to answer", err)
	}
	if question == nil {
		return nil, fmt.Errorf("no question available to answer: %w", ErrNotFound)
	}
	return question, nil
}

func (qs *questionService) AnswersToValidate(ctx context.Context, questionID uuid.UUID, userID *uuid.UUID) ([]*types.Answer, error) {
	question, err := qs.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		return nil, storageErr("load question", err)
	}
	if question == nil {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrNotFound)
	}
	answers, err := qs.answerRepo.ListForValidation(ctx, nil, questionID, userID)
	if err != nil {
		return nil, storageErr("list answers", err)
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("no answers to validate for question %s: %w", questionID, ErrNotFound)
	}
	return answers, nil
}

func (qs *questionService) RandomQAToValidate(ctx context.Context, userID *uuid.UUID) (*RatingPrompt, error) {
	answer, err := qs.answerRepo.GetRandomToValidate(ctx, nil, userID)
	if err != nil {
		return nil, storageErr("pick answer to validate", err)
	}
	if answer == nil {
		return nil, fmt.Errorf("no suitable answer to validate: %w", ErrNotFound)
	}
	question, err := qs.questionRepo.GetByID(ctx, nil, answer.QuestionID)
	if err != nil {
		return nil, storageErr("load question", err)
	}
	if question == nil {
		return nil, fmt.Errorf("question %s: %w", answer.QuestionID, ErrNotFound)
	}
	return &RatingPrompt{
		AnswerID:   answer.ID,
		QuestionID: question.ID,
		Question:   question.Text,
		Answer:     answer.Text,
		Topic:      question.Topic,
	}, nil
}

func (qs *questionService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Question, error) {
	questions, err := qs.questionRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, storageErr("list user questions", err)
	}
	return questions, nil
}
