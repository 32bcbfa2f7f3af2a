package service_test

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"quizclash_backend/internal/config"
	"quizclash_backend/internal/model"
	"quizclash_backend/internal/repository"
	"quizclash_backend/internal/service"
	"quizclash_backend/pkg/database"
	"quizclash_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// testEnv 把仓储和服务装配到一块内存 SQLite 上，
// 每个测试用例独立一库
type testEnv struct {
	db       *gorm.DB
	users    *repository.UserRepository
	sessions *repository.GameSessionRepository
	rounds   *repository.RoundRepository
	question *repository.QuestionRepository
	category *repository.CategoryRepository
	admins   *repository.AdminRepository
	stats    *repository.StatsRepository

	auth     *service.AuthService
	game     *service.GameService
	result   *service.ResultService
	quest    *service.QuestionService
	cat      *service.CategoryService
	statsSvc *service.StatsService
	admin    *service.AdminService
}

var testDBSeq atomic.Int64

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// 每个用例一块独立的共享缓存内存库，连接池内的连接看到同一数据
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		sessions: repository.NewGameSessionRepository(db),
		rounds:   repository.NewRoundRepository(db),
		question: repository.NewQuestionRepository(db),
		category: repository.NewCategoryRepository(db),
		admins:   repository.NewAdminRepository(db),
		stats:    repository.NewStatsRepository(db),
	}

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour

	env.auth = service.NewAuthService(env.users, cfg)
	env.statsSvc = service.NewStatsService(env.stats, env.sessions, env.rounds, env.users, nil)
	env.game = service.NewGameService(env.sessions, env.rounds, env.users, env.question, env.stats, env.statsSvc, db)
	env.result = service.NewResultService(env.sessions, env.rounds, env.users)
	env.quest = service.NewQuestionService(env.question, env.category, env.users)
	env.cat = service.NewCategoryService(env.category, env.question)
	env.admin = service.NewAdminService(env.admins, env.users, env.question, env.sessions)

	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) createCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name}
	require.NoError(t, e.category.Create(category))
	return category
}

func (e *testEnv) createQuestions(t *testing.T, categoryID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		q := &model.Question{
			CategoryID:      categoryID,
			Text:            fmt.Sprintf("question %d of category %d", i+1, categoryID),
			OptionA:         "a",
			OptionB:         "b",
			OptionC:         "c",
			OptionD:         "d",
			CorrectAnswer:   "A",
			DifficultyLevel: "easy",
			Author:          model.QuestionAuthorAdmin,
			Confirmed:       true,
		}
		require.NoError(t, e.db.Create(q).Error)
	}
}

// newGame 建好两名玩家、一个够用的分类和一局进行中的对局
func (e *testEnv) newGame(t *testing.T) (*model.User, *model.User, *model.Category, *model.GameSession) {
	t.Helper()
	p1 := e.createUser(t, "alice")
	p2 := e.createUser(t, "bob")
	category := e.createCategory(t, "Science")
	e.createQuestions(t, category.ID, 10)

	session, err := e.game.CreateSessionWithSelectedOpponent(p1.ID, p2.Username)
	require.NoError(t, err)
	return p1, p2, category, session
}

// answersWithCorrect 构造一份 3 题作答，前 correct 条自报答对
func answersWithCorrect(round *service.StartRoundResult, correct int) []model.SubmittedAnswer {
	answers := make([]model.SubmittedAnswer, 0, len(round.Questions))
	for i, q := range round.Questions {
		answers = append(answers, model.SubmittedAnswer{
			QuestionID:     q.QuestionID,
			SelectedOption: "A",
			IsCorrect:      i < correct,
		})
	}
	return answers
}

// playRound 开一个回合并让双方各自提交指定的答对数
func (e *testEnv) playRound(t *testing.T, session *model.GameSession, categoryID uint, p1Correct, p2Correct int) *service.SubmitResult {
	t.Helper()
	round, err := e.game.StartRound(session.ID, session.Player1ID, categoryID)
	require.NoError(t, err)

	_, err = e.game.SubmitAnswers(session.ID, session.Player1ID, answersWithCorrect(round, p1Correct))
	require.NoError(t, err)

	result, err := e.game.SubmitAnswers(session.ID, session.Player2ID, answersWithCorrect(round, p2Correct))
	require.NoError(t, err)
	return result
}
