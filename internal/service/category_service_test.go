package service_test

import (
	"testing"

	"quizclash_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllCategoriesWithQuestionCounts(t *testing.T) {
	env := newTestEnv(t)
	science := env.createCategory(t, "Science")
	env.createCategory(t, "History")
	env.createQuestions(t, science.ID, 4)

	views, err := env.cat.GetAll()
	require.NoError(t, err)
	require.Len(t, views, 2)

	// 按名称排序：History 在前
	assert.Equal(t, "History", views[0].Name)
	assert.EqualValues(t, 0, views[0].QuestionCount)
	assert.Equal(t, "Science", views[1].Name)
	assert.EqualValues(t, 4, views[1].QuestionCount)
}

func TestGetCategoryNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.cat.Get(9999)
	assert.ErrorIs(t, err, util.ErrCategoryNotFound)
}

func TestMostPopularCategories(t *testing.T) {
	env := newTestEnv(t)
	p1, _, science, session := env.newGame(t)
	history := env.createCategory(t, "History")
	env.createQuestions(t, history.ID, 5)

	_, err := env.game.StartRound(session.ID, p1.ID, science.ID)
	require.NoError(t, err)

	session2, err := env.game.CreateSessionWithSelectedOpponent(p1.ID, "bob")
	require.NoError(t, err)
	_, err = env.game.StartRound(session2.ID, p1.ID, science.ID)
	require.NoError(t, err)
	_, err = env.game.StartRound(session2.ID, p1.ID, history.ID)
	require.NoError(t, err)

	rows, err := env.cat.GetMostPopular(5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Science", rows[0].CategoryName)
	assert.EqualValues(t, 2, rows[0].PlayedCount)
	assert.Equal(t, "History", rows[1].CategoryName)
	assert.EqualValues(t, 1, rows[1].PlayedCount)
}
