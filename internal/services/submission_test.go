package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/types"
)

type submissionFixture struct {
	gdb             *gorm.DB
	nlp             *fakeNLP
	questionService QuestionService
	answerService   AnswerService
	ratingService   RatingService
	scoreRepo       repos.ScoreRepo
}

func newSubmissionFixture(t *testing.T, nlp *fakeNLP) *submissionFixture {
	t.Helper()
	gdb := newTestDB(t)
	log := logger.NewNop()
	questionRepo := repos.NewQuestionRepo(gdb, log)
	answerRepo := repos.NewAnswerRepo(gdb, log)
	evalRepo := repos.NewAnswerEvaluationRepo(gdb, log)
	ratingRepo := repos.NewRatingRepo(gdb, log)
	scoreRepo := repos.NewScoreRepo(gdb, log)

	scoreService := NewScoreService(gdb, log, scoreRepo)
	evaluation := NewEvaluationService(gdb, log, questionRepo, answerRepo, evalRepo, nlp)
	dispatcher := syncDispatcher{}

	return &submissionFixture{
		gdb:             gdb,
		nlp:             nlp,
		questionService: NewQuestionService(gdb, log, questionRepo, answerRepo, scoreService, evaluation, dispatcher),
		answerService:   NewAnswerService(gdb, log, questionRepo, answerRepo, evalRepo, scoreService, evaluation, dispatcher),
		ratingService:   NewRatingService(gdb, log, answerRepo, ratingRepo, scoreService),
		scoreRepo:       scoreRepo,
	}
}

func TestQuestionSubmit_AwardsPointsAndRunsPipeline(t *testing.T) {
	fx := newSubmissionFixture(t, &fakeNLP{
		culturalScore: 6,
		coherentQT:    true,
		validityScore: 4,
		coherentQA:    true,
		generated:     "La risposta generata.",
	})
	ctx := context.Background()
	userID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	createTestUser(t, fx.gdb, userID, "alice")

	question, err := fx.questionService.Submit(ctx, &userID, "Cosa si beve a colazione?", "cibo", types.AuthorHuman)
	require.NoError(t, err)
	require.NotNil(t, question)

	record, err := fx.scoreRepo.Get(ctx, nil, userID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 10, record.Score)
	assert.Equal(t, 1, record.NumQuestions)

	// The sync dispatcher ran the whole pipeline before Submit returned.
	var reloaded types.Question
	require.NoError(t, fx.gdb.First(&reloaded, "id = ?", question.ID).Error)
	assert.Equal(t, types.QuestionEvalAnswered, reloaded.EvalState)
}

func TestQuestionSubmit_LLMTypeIsAnonymous(t *testing.T) {
	fx := newSubmissionFixture(t, &fakeNLP{culturalScore: 1})
	ctx := context.Background()

	question, err := fx.questionService.Submit(ctx, nil, "Domanda generata.", "sport", types.AuthorLLM)
	require.NoError(t, err)
	assert.Nil(t, question.UserID)

	var count int64
	require.NoError(t, fx.gdb.Model(&types.ScoreRecord{}).Count(&count).Error)
	assert.Zero(t, count, "anonymous submissions award no points")
}

func TestQuestionSubmit_HumanWithoutUserIsRejected(t *testing.T) {
	fx := newSubmissionFixture(t, &fakeNLP{})
	_, err := fx.questionService.Submit(context.Background(), nil, "Domanda.", "cibo", types.AuthorHuman)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestQuestionSubmit_BlankFieldsRejected(t *testing.T) {
	fx := newSubmissionFixture(t, &fakeNLP{})
	userID := uuid.New()
	_, err := fx.questionService.Submit(context.Background(), &userID, "   ", "cibo", types.AuthorHuman)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnswerSubmit_MissingQuestion(t *testing.T) {
	fx := newSubmissionFixture(t, &fakeNLP{})
	userID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	createTestUser(t, fx.gdb, userID, "alice")

	_, err := fx.answerService.Submit(context.Background(), &userID, uuid.New(), "Risposta.", types.AuthorHuman)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnswerSubmit_AwardsPointsAndEvaluates(t *testing.T) {
	fx := newSubmissionFixture(t, &fakeNLP{validityScore: 5, coherentQA: true})
	ctx := context.Background()
	userID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	createTestUser(t, fx.gdb, userID, "alice")
	question := createTestQuestion(t, fx.gdb, nil)

	answer, err := fx.answerService.Submit(ctx, &userID, question.ID, "Il caffe.", types.AuthorHuman)
	require.NoError(t, err)

	record, err := fx.scoreRepo.Get(ctx, nil, userID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 5, record.Score)
	assert.Equal(t, 1, record.NumAnswers)

	var reloaded types.Answer
	require.NoError(t, fx.gdb.First(&reloaded, "id = ?", answer.ID).Error)
	assert.Equal(t, types.AnswerEvalFinal, reloaded.EvalState)
}

func TestRate_DuplicateRaterIsConflict(t *testing.T) {
	fx := newSubmissionFixture(t, &fakeNLP{})
	ctx := context.Background()
	userID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	createTestUser(t, fx.gdb, userID, "alice")
	question := createTestQuestion(t, fx.gdb, nil)
	answer := &types.Answer{
		ID:         uuid.New(),
		QuestionID: question.ID,
		Text:       "Risposta.",
		Type:       types.AuthorLLM,
		EvalState:  types.AnswerEvalFinal,
	}
	require.NoError(t, fx.gdb.Create(answer).Error)

	_, err := fx.ratingService.Rate(ctx, &userID, answer.ID, question.ID, 4, true)
	require.NoError(t, err)

	record, err := fx.scoreRepo.Get(ctx, nil, userID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 2, record.Score)

	_, err = fx.ratingService.Rate(ctx, &userID, answer.ID, question.ID, 2, false)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRate_MissingAnswer(t *testing.T) {
	fx := newSubmissionFixture(t, &fakeNLP{})
	userID := uuid.New()
	_, err := fx.ratingService.Rate(context.Background(), &userID, uuid.New(), uuid.New(), 3, false)
	assert.ErrorIs(t, err, ErrNotFound)
}
