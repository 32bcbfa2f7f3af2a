package service_test

import (
	"testing"

	"quizclash_backend/internal/model"
	"quizclash_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanAndUnbanUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")

	require.NoError(t, env.admin.BanUser(user.ID, "cheating"))

	banned, err := env.users.IsBanned(user.ID)
	require.NoError(t, err)
	assert.True(t, banned)

	rows, err := env.admin.GetBannedUsers()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)
	assert.Equal(t, "cheating", rows[0].BanReason)

	// 重复封禁报冲突
	err = env.admin.BanUser(user.ID, "again")
	assert.ErrorIs(t, err, util.ErrAlreadyBanned)

	require.NoError(t, env.admin.UnbanUser(user.ID))
	banned, err = env.users.IsBanned(user.ID)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestBanValidations(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")

	err := env.admin.BanUser(9999, "ghost")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	err = env.admin.UnbanUser(user.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestBanDoesNotTouchOngoingGames(t *testing.T) {
	env := newTestEnv(t)
	p1, p2, category, session := env.newGame(t)

	require.NoError(t, env.admin.BanUser(p2.ID, "abuse"))

	// 已开的对局照常进行
	round, err := env.game.StartRound(session.ID, p1.ID, category.ID)
	require.NoError(t, err)
	_, err = env.game.SubmitAnswers(session.ID, p2.ID, answersWithCorrect(round, 1))
	require.NoError(t, err)

	// 但不能再建新局
	_, err = env.game.CreateSessionWithRandomOpponent(p2.ID)
	assert.ErrorIs(t, err, util.ErrUserBanned)
}

func TestAdminDashboard(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	env.createUser(t, "bob")
	category := env.createCategory(t, "Science")

	_, err := env.quest.Submit(user.ID, submitInput(category.ID))
	require.NoError(t, err)
	require.NoError(t, env.admin.BanUser(user.ID, "spam"))

	stats, err := env.admin.GetDashboard()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.UserCount)
	assert.EqualValues(t, 1, stats.BannedCount)
	assert.EqualValues(t, 1, stats.PendingQuestions)
	assert.EqualValues(t, 0, stats.OngoingGames)
}

func TestIsAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")

	isAdmin, err := env.admin.IsAdmin(user.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, env.db.Create(&model.Admin{UserID: user.ID}).Error)
	isAdmin, err = env.admin.IsAdmin(user.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}
