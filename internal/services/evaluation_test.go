package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/types"
)

func newEvaluationService(t *testing.T, gdb *gorm.DB, nlp NLPClient) EvaluationService {
	t.Helper()
	log := logger.NewNop()
	return NewEvaluationService(gdb, log,
		repos.NewQuestionRepo(gdb, log),
		repos.NewAnswerRepo(gdb, log),
		repos.NewAnswerEvaluationRepo(gdb, log),
		nlp)
}

func createTestQuestion(t *testing.T, gdb *gorm.DB, userID *uuid.UUID) *types.Question {
	t.Helper()
	question := &types.Question{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      "Qual e il dolce tipico di Carnevale?",
		Topic:     "cibo",
		Type:      types.AuthorHuman,
		EvalState: types.QuestionEvalCreated,
	}
	require.NoError(t, gdb.Create(question).Error)
	return question
}

func TestEvaluateQuestion_GatePassesGeneratesOneAnswer(t *testing.T) {
	gdb := newTestDB(t)
	nlp := &fakeNLP{
		culturalScore:    5,
		culturalFeedback: "molto specifica",
		coherentQT:       true,
		validityScore:    4,
		coherentQA:       true,
		generated:        "Le chiacchiere.",
	}
	es := newEvaluationService(t, gdb, nlp)
	question := createTestQuestion(t, gdb, nil)

	require.NoError(t, es.EvaluateQuestion(context.Background(), question.ID))

	var reloaded types.Question
	require.NoError(t, gdb.First(&reloaded, "id = ?", question.ID).Error)
	assert.Equal(t, types.QuestionEvalAnswered, reloaded.EvalState)
	require.NotNil(t, reloaded.CulturalSpecificity)
	assert.Equal(t, 5, *reloaded.CulturalSpecificity)
	require.NotNil(t, reloaded.CoherenceQT)
	assert.True(t, *reloaded.CoherenceQT)

	var answers []types.Answer
	require.NoError(t, gdb.Find(&answers, "question_id = ?", question.ID).Error)
	require.Len(t, answers, 1)
	assert.Equal(t, types.AuthorLLM, answers[0].Type)
	assert.Nil(t, answers[0].UserID)
	assert.Equal(t, types.AnswerEvalFinal, answers[0].EvalState)
	assert.Equal(t, 1, nlp.generateCalls)

	// The generated answer went through the answer pipeline too.
	var evals []types.AnswerEvaluation
	require.NoError(t, gdb.Find(&evals, "answer_id = ?", answers[0].ID).Error)
	require.Len(t, evals, 1)
	assert.Equal(t, 4, evals[0].Validity)
	require.NotNil(t, evals[0].CoherenceQA)
	assert.True(t, *evals[0].CoherenceQA)
}

func TestEvaluateQuestion_LowCulturalScoreSkipsAutoAnswer(t *testing.T) {
	gdb := newTestDB(t)
	nlp := &fakeNLP{culturalScore: 2, coherentQT: true}
	es := newEvaluationService(t, gdb, nlp)
	question := createTestQuestion(t, gdb, nil)

	require.NoError(t, es.EvaluateQuestion(context.Background(), question.ID))

	var reloaded types.Question
	require.NoError(t, gdb.First(&reloaded, "id = ?", question.ID).Error)
	assert.Equal(t, types.QuestionEvalFinal, reloaded.EvalState)

	var count int64
	require.NoError(t, gdb.Model(&types.Answer{}).Where("question_id = ?", question.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, nlp.generateCalls)
}

func TestEvaluateQuestion_IncoherentTopicSkipsAutoAnswer(t *testing.T) {
	gdb := newTestDB(t)
	nlp := &fakeNLP{culturalScore: 9, coherentQT: false}
	es := newEvaluationService(t, gdb, nlp)
	question := createTestQuestion(t, gdb, nil)

	require.NoError(t, es.EvaluateQuestion(context.Background(), question.ID))

	var reloaded types.Question
	require.NoError(t, gdb.First(&reloaded, "id = ?", question.ID).Error)
	assert.Equal(t, types.QuestionEvalFinal, reloaded.EvalState)
	assert.Zero(t, nlp.generateCalls)
}

func TestEvaluateQuestion_CulturalStepFailureLeavesCreatedState(t *testing.T) {
	gdb := newTestDB(t)
	nlp := &fakeNLP{culturalErr: &UpstreamStatusError{Status: 503, Body: "down"}}
	es := newEvaluationService(t, gdb, nlp)
	question := createTestQuestion(t, gdb, nil)

	err := es.EvaluateQuestion(context.Background(), question.ID)
	require.Error(t, err)
	var statusErr *UpstreamStatusError
	assert.True(t, errors.As(err, &statusErr))

	var reloaded types.Question
	require.NoError(t, gdb.First(&reloaded, "id = ?", question.ID).Error)
	assert.Equal(t, types.QuestionEvalCreated, reloaded.EvalState)
	assert.Nil(t, reloaded.CulturalSpecificity)
}

func TestEvaluateAnswer_PersistsSingleEvaluationRow(t *testing.T) {
	gdb := newTestDB(t)
	nlp := &fakeNLP{validityScore: 3, validityFeedback: "parziale", coherentQA: true}
	es := newEvaluationService(t, gdb, nlp)
	question := createTestQuestion(t, gdb, nil)
	answer := &types.Answer{
		ID:         uuid.New(),
		QuestionID: question.ID,
		Text:       "Le chiacchiere.",
		Type:       types.AuthorHuman,
		EvalState:  types.AnswerEvalCreated,
	}
	require.NoError(t, gdb.Create(answer).Error)

	require.NoError(t, es.EvaluateAnswer(context.Background(), answer.ID))

	var evals []types.AnswerEvaluation
	require.NoError(t, gdb.Find(&evals, "answer_id = ?", answer.ID).Error)
	require.Len(t, evals, 1)
	assert.Equal(t, 3, evals[0].Validity)
	assert.Equal(t, "parziale", evals[0].ValidityNotes)
	require.NotNil(t, evals[0].CoherenceQA)
	assert.True(t, *evals[0].CoherenceQA)
	assert.NotEmpty(t, evals[0].RawOutput)

	var reloaded types.Answer
	require.NoError(t, gdb.First(&reloaded, "id = ?", answer.ID).Error)
	assert.Equal(t, types.AnswerEvalFinal, reloaded.EvalState)
}

func TestEvaluateAnswer_CoherenceFailureLeavesPartialState(t *testing.T) {
	gdb := newTestDB(t)
	nlp := &fakeNLP{
		validityScore:  4,
		coherenceQAErr: &UpstreamUnavailableError{Err: errors.New("connection refused")},
	}
	es := newEvaluationService(t, gdb, nlp)
	question := createTestQuestion(t, gdb, nil)
	answer := &types.Answer{
		ID:         uuid.New(),
		QuestionID: question.ID,
		Text:       "Risposta.",
		Type:       types.AuthorHuman,
		EvalState:  types.AnswerEvalCreated,
	}
	require.NoError(t, gdb.Create(answer).Error)

	err := es.EvaluateAnswer(context.Background(), answer.ID)
	require.Error(t, err)

	// Validity survived, coherence never landed: the state tag says how far
	// the pipeline got.
	var reloaded types.Answer
	require.NoError(t, gdb.First(&reloaded, "id = ?", answer.ID).Error)
	assert.Equal(t, types.AnswerEvalValidityScored, reloaded.EvalState)

	var evals []types.AnswerEvaluation
	require.NoError(t, gdb.Find(&evals, "answer_id = ?", answer.ID).Error)
	require.Len(t, evals, 1)
	assert.Equal(t, 4, evals[0].Validity)
	assert.Nil(t, evals[0].CoherenceQA)
}

func TestEvaluateQuestion_MissingQuestion(t *testing.T) {
	gdb := newTestDB(t)
	es := newEvaluationService(t, gdb, &fakeNLP{})

	err := es.EvaluateQuestion(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
