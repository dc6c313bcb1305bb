package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
	"github.com/culturallm/culturallm-backend/internal/types"
	"github.com/culturallm/culturallm-backend/internal/utils"
)

// ProfileSummary is everything the profile page shows in one payload.
type ProfileSummary struct {
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Nation        string    `json:"nation"`
	SignupDate    time.Time `json:"signup_date"`
	Score         int       `json:"score"`
	NumQuestions  int       `json:"num_questions"`
	NumAnswers    int       `json:"num_answers"`
	Position      int       `json:"position"`
	Level         int       `json:"level"`
	NextThreshold int       `json:"next_threshold"`
}

type ProfileUpdate struct {
	Username    *string
	Nation      *string
	OldPassword *string
	NewPassword *string
}

type ProfileService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*ProfileSummary, error)
	// Update changes username, nation or password. A password change
	// requires the old password to match.
	Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) error
	Questions(ctx context.Context, userID uuid.UUID) ([]*types.Question, error)
	Answers(ctx context.Context, userID uuid.UUID) ([]*types.Answer, error)
}

type profileService struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo     repos.UserRepo
	scoreRepo    repos.ScoreRepo
	questionRepo repos.QuestionRepo
	answerRepo   repos.AnswerRepo
}

func NewProfileService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	scoreRepo repos.ScoreRepo,
	questionRepo repos.QuestionRepo,
	answerRepo repos.AnswerRepo,
) ProfileService {
	return &profileService{
		db:           db,
		log:          baseLog.With("service", "ProfileService"),
		userRepo:     userRepo,
		scoreRepo:    scoreRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

func (ps *profileService) Summary(ctx context.Context, userID uuid.UUID) (*ProfileSummary, error) {
	users, err := ps.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, storageErr("load user", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	user := users[0]

	summary := &ProfileSummary{
		Username:   user.Username,
		Email:      user.Email,
		Nation:     user.Nation,
		SignupDate: user.SignupDate,
	}

	record, err := ps.scoreRepo.Get(ctx, nil, userID)
	if err != nil {
		return nil, storageErr("load score", err)
	}
	if record != nil {
		summary.Score = record.Score
		summary.NumQuestions = record.NumQuestions
		summary.NumAnswers = record.NumAnswers
	}
	position, err := ps.scoreRepo.Position(ctx, nil, userID, summary.Score)
	if err != nil {
		return nil, storageErr("compute position", err)
	}
	summary.Position = position

	level := levelForScore(summary.Score)
	summary.Level = level.Level
	summary.NextThreshold = level.NextThreshold
	return summary, nil
}

func (ps *profileService) Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) error {
	users, err := ps.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return storageErr("load user", err)
	}
	if len(users) == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	user := users[0]

	fields := map[string]any{}
	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return fmt.Errorf("username cannot be empty: %w", ErrInvalidInput)
		}
		if username != user.Username {
			exists, err := ps.userRepo.UsernameExists(ctx, nil, username)
			if err != nil {
				return storageErr("check username", err)
			}
			if exists {
				return fmt.Errorf("username %q already taken: %w", username, ErrConflict)
			}
			fields["username"] = username
		}
	}
	if update.Nation != nil {
		fields["nation"] = strings.TrimSpace(*update.Nation)
	}
	if update.NewPassword != nil {
		if update.OldPassword == nil || !utils.CheckPassword(user.Password, *update.OldPassword) {
			return fmt.Errorf("old password does not match: %w", ErrUnauthorized)
		}
		hashed, err := utils.HashPassword(*update.NewPassword)
		if err != nil {
			return err
		}
		fields["password_hash"] = hashed
	}
	if len(fields) == 0 {
		return nil
	}
	if err := ps.userRepo.UpdateFields(ctx, nil, userID, fields); err != nil {
		return storageErr("update user", err)
	}
	return nil
}

func (ps *profileService) Questions(ctx context.Context, userID uuid.UUID) ([]*types.Question, error) {
	questions, err := ps.questionRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, storageErr("list user questions", err)
	}
	return questions, nil
}

func (ps *profileService) Answers(ctx context.Context, userID uuid.UUID) ([]*types.Answer, error) {
	answers, err := ps.answerRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, storageErr("list user answers", err)
	}
	return answers, nil
}
