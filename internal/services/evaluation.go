package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/types"
	"github.com/culturallm/culturallm-backend/internal/utils"
)

// A question earns an automatic LLM answer only when the scorer judged it
// both culturally specific enough and coherent with its topic.
const autoAnswerCulturalMin = 4

// Level passed to the generator for automatic answers, and to the humanizer
// (1 = lightest touch).
const (
	autoAnswerLevel      = 1
	defaultHumanizeLevel = 1
)

// EvaluationService runs the fixed post-submission evaluation sequence for a
// question or an answer. Every step is persisted on its own immediately after
// the external call returns: a crash or failed step leaves a well-defined
// partial state (tagged via eval_state), never a rollback. There is no retry
// or dead-letter path; a failed pipeline stays partial.
type EvaluationService interface {
	EvaluateQuestion(ctx context.Context, questionID uuid.UUID) error
	EvaluateAnswer(ctx context.Context, answerID uuid.UUID) error
}

type evaluationService struct {
	db  *gorm.DB
	log *logger.Logger

	questionRepo repos.QuestionRepo
	answerRepo   repos.AnswerRepo
	evalRepo     repos.AnswerEvaluationRepo

	nlp NLPClient

	evaluatorID   uuid.UUID
	humanize      bool
	humanizeLevel int
}

func NewEvaluationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	questionRepo repos.QuestionRepo,
	answerRepo repos.AnswerRepo,
	evalRepo repos.AnswerEvaluationRepo,
	nlp NLPClient,
) EvaluationService {
	serviceLog := baseLog.With("service", "EvaluationService")

	evaluatorID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	if raw := utils.GetEnv("NLP_EVALUATOR_ID", "", serviceLog); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			serviceLog.Warn("Invalid NLP_EVALUATOR_ID, using default", "value", raw, "error", err)
		} else {
			evaluatorID = parsed
		}
	}

	humanize := utils.GetEnv("NLP_HUMANIZE", "true", serviceLog) != "false"

	return &evaluationService{
		db:            db,
		log:           serviceLog,
		questionRepo:  questionRepo,
		answerRepo:    answerRepo,
		evalRepo:      evalRepo,
		nlp:           nlp,
		evaluatorID:   evaluatorID,
		humanize:      humanize,
		humanizeLevel: utils.GetEnvAsInt("NLP_HUMANIZE_LEVEL", defaultHumanizeLevel, serviceLog),
	}
}

// EvaluateQuestion runs the question pipeline:
//
//	created -> cultural_scored -> coherence_scored -> final | answered
//
// The auto-answer branch fires when the gate passes; the generated answer is
// then pushed through the answer pipeline itself.
func (es *evaluationService) EvaluateQuestion(ctx context.Context, questionID uuid.UUID) error {
	log := es.log.With("question_id", questionID.String())

	question, err := es.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		return storageErr("load question", err)
	}
	if question == nil {
		return fmt.Errorf("question %s: %w", questionID, ErrNotFound)
	}

	cultural, err := es.nlp.EvaluateCultural(ctx, question.Text)
	if err != nil {
		return fmt.Errorf("cultural evaluation: %w", err)
	}
	if err := es.questionRepo.UpdateEvaluation(ctx, nil, questionID, map[string]any{
		"cultural_specificity":       cultural.Score,
		"cultural_specificity_notes": cultural.Feedback,
		"eval_state":                 types.QuestionEvalCulturalScored,
	}); err != nil {
		return storageErr("persist cultural score", err)
	}
	log.Debug("Cultural specificity scored", "score", cultural.Score)

	coherent, err := es.nlp.EvaluateCoherenceQT(ctx, question.Text, question.Topic)
	if err != nil {
		return fmt.Errorf("question/topic coherence evaluation: %w", err)
	}
	if err := es.questionRepo.UpdateEvaluation(ctx, nil, questionID, map[string]any{
		"coherence_qt": coherent,
		"eval_state":   types.QuestionEvalCoherenceScored,
	}); err != nil {
		return storageErr("persist coherence flag", err)
	}
	log.Debug("Question/topic coherence scored", "coherent", coherent)

	if cultural.Score >= autoAnswerCulturalMin && coherent {
		return es.autoAnswer(ctx, question)
	}

	if err := es.questionRepo.UpdateEvaluation(ctx, nil, questionID, map[string]any{
		"eval_state": types.QuestionEvalFinal,
	}); err != nil {
		return storageErr("finalize question", err)
	}
	return nil
}

func (es *evaluationService) autoAnswer(ctx context.Context, question *types.Question) error {
	log := es.log.With("question_id", question.ID.String())

	text, err := es.nlp.GenerateAnswer(ctx, question.Text, autoAnswerLevel)
	if err != nil {
		return fmt.Errorf("generate answer: %w", err)
	}
	if es.humanize {
		humanized, err := es.nlp.Humanize(ctx, text, es.humanizeLevel)
		if err != nil {
			return fmt.Errorf("humanize answer: %w", err)
		}
		text = humanized
	}

	answer := &types.Answer{
		ID:         uuid.New(),
		QuestionID: question.ID,
		Text:       text,
		Type:       types.AuthorLLM,
		EvalState:  types.AnswerEvalCreated,
	}
	if _, err := es.answerRepo.Create(ctx, nil, []*types.Answer{answer}); err != nil {
		return storageErr("insert llm answer", err)
	}
	if err := es.questionRepo.UpdateEvaluation(ctx, nil, question.ID, map[string]any{
		"eval_state": types.QuestionEvalAnswered,
	}); err != nil {
		return storageErr("mark question answered", err)
	}
	log.Info("Auto-answer generated", "answer_id", answer.ID.String())

	// The generated answer goes through the same validity/coherence pipeline
	// as a human one.
	return es.EvaluateAnswer(ctx, answer.ID)
}

// EvaluateAnswer runs the answer pipeline:
//
//	created -> validity_scored -> final
//
// Validity is inserted as a fresh evaluation row keyed by (answer,
// evaluator); the coherence flag is updated into that same row afterwards, so
// the row has a window where coherence is still null.
func (es *evaluationService) EvaluateAnswer(ctx context.Context, answerID uuid.UUID) error {
	log := es.log.With("answer_id", answerID.String())

	answer, err := es.answerRepo.GetByID(ctx, nil, answerID)
	if err != nil {
		return storageErr("load answer", err)
	}
	if answer == nil {
		return fmt.Errorf("answer %s: %w", answerID, ErrNotFound)
	}
	question, err := es.questionRepo.GetByID(ctx, nil, answer.QuestionID)
	if err != nil {
		return storageErr("load question", err)
	}
	if question == nil {
		return fmt.Errorf("question %s: %w", answer.QuestionID, ErrNotFound)
	}

	validity, err := es.nlp.EvaluateValidity(ctx, question.Text, answer.Text)
	if err != nil {
		return fmt.Errorf("validity evaluation: %w", err)
	}
	raw, _ := json.Marshal(map[string]any{
		"score":    validity.Score,
		"feedback": validity.Feedback,
	})
	eval := &types.AnswerEvaluation{
		ID:            uuid.New(),
		AnswerID:      answerID,
		LLMID:         es.evaluatorID,
		Validity:      validity.Score,
		ValidityNotes: validity.Feedback,
		RawOutput:     datatypes.JSON(raw),
	}
	if _, err := es.evalRepo.Insert(ctx, nil, eval); err != nil {
		return storageErr("insert answer evaluation", err)
	}
	if err := es.answerRepo.UpdateEvalState(ctx, nil, answerID, types.AnswerEvalValidityScored); err != nil {
		return storageErr("mark answer validity_scored", err)
	}
	log.Debug("Validity scored", "score", validity.Score)

	coherent, err := es.nlp.EvaluateCoherenceQA(ctx, question.Text, answer.Text)
	if err != nil {
		return fmt.Errorf("question/answer coherence evaluation: %w", err)
	}
	if err := es.evalRepo.UpdateCoherence(ctx, nil, answerID, es.evaluatorID, coherent); err != nil {
		return storageErr("persist answer coherence", err)
	}
	if err := es.answerRepo.UpdateEvalState(ctx, nil, answerID, types.AnswerEvalFinal); err != nil {
		return storageErr("finalize answer", err)
	}
	log.Debug("Question/answer coherence scored", "coherent", coherent)
	return nil
}
