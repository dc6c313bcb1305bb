package services

import (
	"context"
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

func createTestUser(t *testing.T, gdb *gorm.DB, id uuid.UUID, username string) *types.User {
	t.Helper()
	user := &types.User{
		ID:         id,
		Username:   username,
		Email:      username + "@example.com",
		Password:   "x",
		SignupDate: time.Now(),
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

// syncDispatcher runs submitted tasks inline so tests observe pipeline
// side effects without sleeping.
type syncDispatcher struct{}

func (syncDispatcher) Submit(name string, task func(ctx context.Context)) {
	task(context.Background())
}

func (syncDispatcher) Close() {}

// fakeNLP is a scripted NLPClient. Zero values mean "succeed with defaults";
// set an err field to make that step fail.
type fakeNLP struct {
	culturalScore    int
	culturalFeedback string
	culturalErr      error

	coherentQT     bool
	coherenceQTErr error

	validityScore    int
	validityFeedback string
	validityErr      error

	coherentQA     bool
	coherenceQAErr error

	generated   string
	generateErr error

	humanized   string
	humanizeErr error

	generateCalls int
	humanizeCalls int
}

func (f *fakeNLP) EvaluateCultural(ctx context.Context, question string) (NLPScore, error) {
	if f.culturalErr != nil {
		return NLPScore{}, f.culturalErr
	}
	return NLPScore{Score: f.culturalScore, Feedback: f.culturalFeedback}, nil
}

func (f *fakeNLP) EvaluateCoherenceQT(ctx context.Context, question, theme string) (bool, error) {
	if f.coherenceQTErr != nil {
		return false, f.coherenceQTErr
	}
	return f.coherentQT, nil
}

func (f *fakeNLP) EvaluateCoherenceQA(ctx context.Context, question, answer string) (bool, error) {
	if f.coherenceQAErr != nil {
		return false, f.coherenceQAErr
	}
	return f.coherentQA, nil
}

func (f *fakeNLP) EvaluateValidity(ctx context.Context, question, answer string) (NLPScore, error) {
	if f.validityErr != nil {
		return NLPScore{}, f.validityErr
	}
	return NLPScore{Score: f.validityScore, Feedback: f.validityFeedback}, nil
}

func (f *fakeNLP) GenerateAnswer(ctx context.Context, topic string, level int) (string, error) {
	f.generateCalls++
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.generated, nil
}

func (f *fakeNLP) Humanize(ctx context.Context, text string, level int) (string, error) {
	f.humanizeCalls++
	if f.humanizeErr != nil {
		return "", f.humanizeErr
	}
	if f.humanized != "" {
		return f.humanized, nil
	}
	return text, nil
}
