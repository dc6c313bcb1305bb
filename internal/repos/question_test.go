package repos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturallm/culturallm-backend/internal/logger"
	"github.com/culturallm/culturallm-backend/internal/repos"
)

func TestGetRandomToAnswer_ExcludesOwnAndAnswered(t *testing.T) {
	gdb := newTestDB(t)
	repo := repos.NewQuestionRepo(gdb, logger.NewNop())
	ctx := context.Background()

	user := seedUser(t, gdb, "alice")
	author := seedUser(t, gdb, "bob")

	seedQuestion(t, gdb, &user.ID, "cibo")
	answered := seedQuestion(t, gdb, &author.ID, "sport")
	seedAnswer(t, gdb, answered.ID, &user.ID)
	open := seedQuestion(t, gdb, &author.ID, "musica")

	picked, err := repo.GetRandomToAnswer(ctx, nil, &user.ID)
	require.NoError(t, err)
	require.NotNil(t, picked)
	assert.Equal(t, open.ID, picked.ID)
}

func TestGetRandomToAnswer_NoneLeft(t *testing.T) {
	gdb := newTestDB(t)
	repo := repos.NewQuestionRepo(gdb, logger.NewNop())
	ctx := context.Background()

	user := seedUser(t, gdb, "alice")
	seedQuestion(t, gdb, &user.ID, "cibo")

	picked, err := repo.GetRandomToAnswer(ctx, nil, &user.ID)
	require.NoError(t, err)
	assert.Nil(t, picked)
}

func TestGetRandomAnswered_RequiresAnAnswer(t *testing.T) {
	gdb := newTestDB(t)
	repo := repos.NewQuestionRepo(gdb, logger.NewNop())
	ctx := context.Background()

	author := seedUser(t, gdb, "bob")
	seedQuestion(t, gdb, &author.ID, "cibo")

	picked, err := repo.GetRandomAnswered(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, picked)

	withAnswer := seedQuestion(t, gdb, &author.ID, "sport")
	seedAnswer(t, gdb, withAnswer.ID, nil)

	picked, err = repo.GetRandomAnswered(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, picked)
	assert.Equal(t, withAnswer.ID, picked.ID)
}
