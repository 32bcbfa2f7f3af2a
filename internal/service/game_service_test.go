package service_test

import (
	"testing"

	"quizclash_backend/internal/model"
	"quizclash_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionWithRandomOpponent(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.createUser(t, "alice")
	p2 := env.createUser(t, "bob")

	session, err := env.game.CreateSessionWithRandomOpponent(p1.ID)
	require.NoError(t, err)

	assert.Equal(t, model.GameStatusOngoing, session.Status)
	assert.Equal(t, p1.ID, session.Player1ID)
	assert.Equal(t, p2.ID, session.Player2ID)
	assert.False(t, session.StartTime.IsZero())
	assert.Nil(t, session.EndTime)
}

func TestCreateSessionNoOpponentAvailable(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.createUser(t, "alice")

	_, err := env.game.CreateSessionWithRandomOpponent(p1.ID)
	assert.ErrorIs(t, err, util.ErrNoOpponentAvailable)
}

func TestCreateSessionSkipsBannedOpponents(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.createUser(t, "alice")
	p2 := env.createUser(t, "bob")
	require.NoError(t, env.admins.Ban(p2.ID, "cheating"))

	_, err := env.game.CreateSessionWithRandomOpponent(p1.ID)
	assert.ErrorIs(t, err, util.ErrNoOpponentAvailable)
}

func TestCreateSessionBannedInitiator(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.createUser(t, "alice")
	env.createUser(t, "bob")
	require.NoError(t, env.admins.Ban(p1.ID, "spam"))

	_, err := env.game.CreateSessionWithRandomOpponent(p1.ID)
	assert.ErrorIs(t, err, util.ErrUserBanned)
}

func TestCreateSessionWithSelectedOpponent(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.createUser(t, "alice")
	p2 := env.createUser(t, "bob")

	session, err := env.game.CreateSessionWithSelectedOpponent(p1.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, p2.ID, session.Player2ID)

	_, err = env.game.CreateSessionWithSelectedOpponent(p1.ID, "nobody")
	assert.ErrorIs(t, err, util.ErrOpponentNotFound)

	// 不能和自己对战
	_, err = env.game.CreateSessionWithSelectedOpponent(p1.ID, "alice")
	assert.ErrorIs(t, err, util.ErrOpponentNotFound)
}

func TestStartRoundSnapshotsQuestions(t *testing.T) {
	env := newTestEnv(t)
	p1, _, category, session := env.newGame(t)

	round, err := env.game.StartRound(session.ID, p1.ID, category.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, round.RoundNumber)
	require.Len(t, round.Questions, 3)

	seen := map[uint]bool{}
	for _, q := range round.Questions {
		assert.NotEmpty(t, q.Text)
		assert.Equal(t, "A", q.CorrectAnswer)
		assert.False(t, seen[q.QuestionID], "question sampled twice")
		seen[q.QuestionID] = true
	}

	// 题库后续修改不影响已开回合的快照
	require.NoError(t, env.db.Model(&model.Question{}).Where("1 = 1").Update("text", "rewritten").Error)
	stored, err := env.game.GetRoundByID(round.RoundID)
	require.NoError(t, err)
	for _, q := range stored.Questions {
		assert.NotEqual(t, "rewritten", q.Text)
	}
}

func TestStartRoundNumbersAreGapless(t *testing.T) {
	env := newTestEnv(t)
	p1, p2, category, session := env.newGame(t)

	for want := 1; want <= model.RoundsPerGame; want++ {
		round, err := env.game.StartRound(session.ID, p1.ID, category.ID)
		require.NoError(t, err)
		assert.Equal(t, want, round.RoundNumber)

		_, err = env.game.SubmitAnswers(session.ID, p1.ID, answersWithCorrect(round, 1))
		require.NoError(t, err)
		_, err = env.game.SubmitAnswers(session.ID, p2.ID, answersWithCorrect(round, 1))
		require.NoError(t, err)
	}
}

func TestStartRoundLimit(t *testing.T) {
	env := newTestEnv(t)
	p1, _, category, session := env.newGame(t)

	for i := 0; i < model.RoundsPerGame; i++ {
		_, err := env.game.StartRound(session.ID, p1.ID, category.ID)
		require.NoError(t, err)
	}

	_, err := env.game.StartRound(session.ID, p1.ID, category.ID)
	assert.ErrorIs(t, err, util.ErrRoundLimitReached)
}

func TestStartRoundValidations(t *testing.T) {
	env := newTestEnv(t)
	p1, _, category, session := env.newGame(t)
	outsider := env.createUser(t, "carol")

	_, err := env.game.StartRound(9999, p1.ID, category.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	_, err = env.game.StartRound(session.ID, outsider.ID, category.ID)
	assert.ErrorIs(t, err, util.ErrNotParticipant)

	// 被拒绝的开局不得留下回合
	count, err := env.rounds.CountBySession(session.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// 分类题目不足 3 道
	small := env.createCategory(t, "Tiny")
	env.createQuestions(t, small.ID, 2)
	_, err = env.game.StartRound(session.ID, p1.ID, small.ID)
	assert.ErrorIs(t, err, util.ErrNotEnoughQuestions)
}

func TestSubmitAnswersScoresSelfReportedCorrectness(t *testing.T) {
	env := newTestEnv(t)
	p1, _, category, session := env.newGame(t)

	round, err := env.game.StartRound(session.ID, p1.ID, category.ID)
	require.NoError(t, err)

	result, err := env.game.SubmitAnswers(session.ID, p1.ID, answersWithCorrect(round, 2))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Score)
	assert.False(t, result.RoundComplete)
	assert.False(t, result.GameComplete)
}

func TestSubmitAnswersRoundCompletion(t *testing.T) {
	env := newTestEnv(t)
	p1, p2, category, session := env.newGame(t)

	round, err := env.game.StartRound(session.ID, p1.ID, category.ID)
	require.NoError(t, err)

	_, err = env.game.SubmitAnswers(session.ID, p1.ID, answersWithCorrect(round, 3))
	require.NoError(t, err)

	result, err := env.game.SubmitAnswers(session.ID, p2.ID, answersWithCorrect(round, 1))
	require.NoError(t, err)
	assert.True(t, result.RoundComplete)
	assert.False(t, result.GameComplete)

	status, err := env.game.GetRoundStatus(session.ID, 1)
	require.NoError(t, err)
	assert.True(t, status.Player1Answered)
	assert.True(t, status.Player2Answered)
	assert.True(t, status.RoundComplete)
}

func TestSubmitAnswersResubmissionOverwrites(t *testing.T) {
	env := newTestEnv(t)
	p1, _, category, session := env.newGame(t)

	round, err := env.game.StartRound(session.ID, p1.ID, category.ID)
	require.NoError(t, err)

	_, err = env.game.SubmitAnswers(session.ID, p1.ID, answersWithCorrect(round, 1))
	require.NoError(t, err)

	result, err := env.game.SubmitAnswers(session.ID, p1.ID, answersWithCorrect(round, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Score)

	// 覆盖而非追加：提交记录仍只有一条
	var count int64
	require.NoError(t, env.db.Model(&model.RoundSubmission{}).Where("round_id = ?", round.RoundID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	view, err := env.game.GetCurrentRound(session.ID)
	require.NoError(t, err)
	require.Len(t, view.PlayersAnswers, 1)
	for _, sub := range view.PlayersAnswers {
		assert.Equal(t, 3, sub.Score)
	}
}

func TestSubmitAnswersTargetsLatestRound(t *testing.T) {
	env := newTestEnv(t)
	p1, p2, category, session := env.newGame(t)

	round1, err := env.game.StartRound(session.ID, p1.ID, category.ID)
	require.NoError(t, err)
	_, err = env.game.SubmitAnswers(session.ID, p1.ID, answersWithCorrect(round1, 1))
	require.NoError(t, err)

	// 回合 1 对手未交就开了回合 2，迟到的提交落到回合 2
	round2, err := env.game.StartRound(session.ID, p1.ID, category.ID)
	require.NoError(t, err)
	_, err = env.game.SubmitAnswers(session.ID, p2.ID, answersWithCorrect(round2, 2))
	require.NoError(t, err)

	status1, err := env.game.GetRoundStatus(session.ID, 1)
	require.NoError(t, err)
	assert.False(t, status1.Player2Answered)

	status2, err := env.game.GetRoundStatus(session.ID, 2)
	require.NoError(t, err)
	assert.True(t, status2.Player2Answered)
	assert.False(t, status2.Player1Answered)
}

func TestSubmitAnswersValidations(t *testing.T) {
	env := newTestEnv(t)
	p1, _, _, session := env.newGame(t)
	outsider := env.createUser(t, "carol")

	// 还没有任何回合
	_, err := env.game.SubmitAnswers(session.ID, p1.ID, nil)
	assert.ErrorIs(t, err, util.ErrRoundNotFound)

	_, err = env.game.SubmitAnswers(session.ID, outsider.ID, nil)
	assert.ErrorIs(t, err, util.ErrNotParticipant)

	_, err = env.game.SubmitAnswers(9999, p1.ID, nil)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestGameCompletesAfterFiveFullRounds(t *testing.T) {
	env := newTestEnv(t)
	p1, p2, category, session := env.newGame(t)

	for i := 0; i < model.RoundsPerGame-1; i++ {
		result := env.playRound(t, session, category.ID, 3, 1)
		assert.False(t, result.GameComplete)
	}

	result := env.playRound(t, session, category.ID, 3, 1)
	assert.True(t, result.GameComplete)

	stored, err := env.sessions.FindByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GameStatusEnded, stored.Status)
	require.NotNil(t, stored.EndTime)
	assert.False(t, stored.EndTime.Before(stored.StartTime))
	assert.Nil(t, stored.WinnerID, "winner must never be persisted")

	// 终局后不再接受提交和开局
	_, err = env.game.SubmitAnswers(session.ID, p1.ID, nil)
	assert.ErrorIs(t, err, util.ErrSessionNotOngoing)
	_, err = env.game.StartRound(session.ID, p1.ID, category.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotOngoing)

	// 双方统计在终局时累加：15:5，胜者多 50 XP
	s1, err := env.statsSvc.GetUserStats(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s1.GameCount)
	assert.Equal(t, 1, s1.WinCount)
	assert.Equal(t, 15*10+50, s1.XP)
	assert.InDelta(t, 1.0, s1.AverageAccuracy, 1e-9)

	s2, err := env.statsSvc.GetUserStats(p2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s2.GameCount)
	assert.Equal(t, 0, s2.WinCount)
	assert.Equal(t, 5*10, s2.XP)
	assert.InDelta(t, 5.0/15.0, s2.AverageAccuracy, 1e-9)
}

func TestGameCompletionIsSymmetric(t *testing.T) {
	env := newTestEnv(t)
	p1, p2, category, session := env.newGame(t)

	// 最后一回合由玩家一收尾，完成判定与提交顺序无关
	for i := 0; i < model.RoundsPerGame-1; i++ {
		env.playRound(t, session, category.ID, 2, 2)
	}

	round, err := env.game.StartRound(session.ID, p2.ID, category.ID)
	require.NoError(t, err)
	_, err = env.game.SubmitAnswers(session.ID, p2.ID, answersWithCorrect(round, 2))
	require.NoError(t, err)

	result, err := env.game.SubmitAnswers(session.ID, p1.ID, answersWithCorrect(round, 2))
	require.NoError(t, err)
	assert.True(t, result.GameComplete)
}

func TestGetSessionDetailTurnIndicator(t *testing.T) {
	env := newTestEnv(t)
	_, _, category, session := env.newGame(t)

	detail, err := env.game.GetSessionDetail(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.Player1.Name)
	assert.Equal(t, "bob", detail.Player2.Name)
	assert.Equal(t, 0, detail.CurrentRound)
	assert.True(t, detail.IsPlayer1Turn)

	env.playRound(t, session, category.ID, 1, 1)

	detail, err = env.game.GetSessionDetail(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.CurrentRound)
	assert.False(t, detail.IsPlayer1Turn)
	require.Len(t, detail.Rounds, 1)
	assert.Len(t, detail.Rounds[0].Player1Answers, 3)
	assert.Len(t, detail.Rounds[0].Player2Answers, 3)
}

func TestGetCurrentRoundForQuizStripsAnswers(t *testing.T) {
	env := newTestEnv(t)
	p1, _, category, session := env.newGame(t)

	_, err := env.game.StartRound(session.ID, p1.ID, category.ID)
	require.NoError(t, err)

	quizView, err := env.game.GetCurrentRoundForQuiz(session.ID)
	require.NoError(t, err)
	for _, q := range quizView.Questions {
		assert.Empty(t, q.CorrectAnswer)
	}

	fullView, err := env.game.GetCurrentRound(session.ID)
	require.NoError(t, err)
	for _, q := range fullView.Questions {
		assert.Equal(t, "A", q.CorrectAnswer)
	}
}

func TestGetActiveSessions(t *testing.T) {
	env := newTestEnv(t)
	p1, p2, category, session := env.newGame(t)

	rows, err := env.game.GetActiveSessions(p1.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, session.ID, rows[0].SessionID)

	for i := 0; i < model.RoundsPerGame; i++ {
		env.playRound(t, session, category.ID, 1, 1)
	}

	rows, err = env.game.GetActiveSessions(p1.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = env.game.GetActiveSessions(p2.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSessionLockReleasedAfterGameEnds(t *testing.T) {
	env := newTestEnv(t)
	_, _, category, session := env.newGame(t)

	for i := 0; i < model.RoundsPerGame-1; i++ {
		env.playRound(t, session, category.ID, 2, 1)
	}
	// 进行中的对局保留锁条目
	assert.True(t, env.game.SessionLockRetained(session.ID))

	result := env.playRound(t, session, category.ID, 2, 1)
	require.True(t, result.GameComplete)
	assert.False(t, env.game.SessionLockRetained(session.ID))
}
