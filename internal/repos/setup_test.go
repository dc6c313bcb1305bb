package repos_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/culturallm/culturallm-backend/internal/db"
	"github.com/culturallm/culturallm-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, username string) *types.User {
	t.Helper()
	user := &types.User{
		ID:         uuid.New(),
		Username:   username,
		Email:      username + "@example.com",
		Password:   "x",
		SignupDate: time.Now(),
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func seedQuestion(t *testing.T, gdb *gorm.DB, userID *uuid.UUID, topic string) *types.Question {
	t.Helper()
	question := &types.Question{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      "q-" + uuid.NewString(),
		Topic:     topic,
		Type:      types.AuthorHuman,
		EvalState: types.QuestionEvalCreated,
	}
	require.NoError(t, gdb.Create(question).Error)
	return question
}

func seedAnswer(t *testing.T, gdb *gorm.DB, questionID uuid.UUID, userID *uuid.UUID) *types.Answer {
	t.Helper()
	answer := &types.Answer{
		ID:         uuid.New(),
		QuestionID: questionID,
		UserID:     userID,
		Text:       "a-" + uuid.NewString(),
		Type:       types.AuthorHuman,
		EvalState:  types.AnswerEvalCreated,
	}
	require.NoError(t, gdb.Create(answer).Error)
	return answer
}

func seedRating(t *testing.T, gdb *gorm.DB, answerID, questionID uuid.UUID, userID *uuid.UUID) {
	t.Helper()
	rating := &types.Rating{
		ID:         uuid.New(),
		AnswerID:   answerID,
		QuestionID: questionID,
		UserID:     userID,
		Rating:     3,
	}
	require.NoError(t, gdb.Create(rating).Error)
}
