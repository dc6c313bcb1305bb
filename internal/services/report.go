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

type ReportService interface {
	// Report files a complaint against a question or an answer. Exactly one
	// of questionID/answerID must be set.
	Report(ctx context.Context, userID uuid.UUID, questionID, answerID *uuid.UUID, reason string) (*types.Report, error)
}

type reportService struct {
	db  *gorm.DB
	log *logger.Logger

	reportRepo   repos.ReportRepo
	questionRepo repos.QuestionRepo
	answerRepo   repos.AnswerRepo
}

func NewReportService(db *gorm.DB, baseLog *logger.Logger, reportRepo repos.ReportRepo, questionRepo repos.QuestionRepo, answerRepo repos.AnswerRepo) ReportService {
	return &reportService{
		db:           db,
		log:          baseLog.With("service", "ReportService"),
		reportRepo:   reportRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

func (rs *reportService) Report(ctx context.Context, userID uuid.UUID, questionID, answerID *uuid.UUID, reason string) (*types.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("a reason is required: %w", ErrInvalidInput)
	}
	if (questionID == nil) == (answerID == nil) {
		return nil, fmt.Errorf("exactly one of question_id and answer_id must be set: %w", ErrInvalidInput)
	}

	if questionID != nil {
		question, err := rs.questionRepo.GetByID(ctx, nil, *questionID)
		if err != nil {
			return nil, storageErr("load question", err)
		}
		if question == nil {
			return nil, fmt.Errorf("question %s: %w", *questionID, ErrNotFound)
		}
	}
	if answerID != nil {
		answer, err := rs.answerRepo.GetByID(ctx, nil, *answerID)
		if err != nil {
			return nil, storageErr("load answer", err)
		}
		if answer == nil {
			return nil, fmt.Errorf("answer %s: %w", *answerID, ErrNotFound)
		}
	}

	report := &types.Report{
		ID:         uuid.New(),
		UserID:     userID,
		QuestionID: questionID,
		AnswerID:   answerID,
		Reason:     reason,
	}
	if _, err := rs.reportRepo.Create(ctx, nil, []*types.Report{report}); err != nil {
		return nil, storageErr("insert report", err)
	}
	return report, nil
}
