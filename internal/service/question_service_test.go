package service_test

import (
	"encoding/json"
	"testing"

	"quizclash_backend/internal/model"
	"quizclash_backend/internal/service"
	"quizclash_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitInput(categoryID uint) *service.SubmitQuestionInput {
	return &service.SubmitQuestionInput{
		CategoryID:      categoryID,
		Text:            "What is the boiling point of water at sea level?",
		OptionA:         "90°C",
		OptionB:         "100°C",
		OptionC:         "110°C",
		OptionD:         "120°C",
		CorrectAnswer:   "b",
		DifficultyLevel: "easy",
	}
}

func TestSubmitQuestionGoesToPendingPool(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	category := env.createCategory(t, "Science")

	question, err := env.quest.Submit(user.ID, submitInput(category.ID))
	require.NoError(t, err)

	assert.False(t, question.Confirmed)
	assert.Equal(t, model.QuestionAuthorUser, question.Author)
	assert.Equal(t, "B", question.CorrectAnswer, "answer option is normalized")

	pending, err := env.quest.GetPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Science", pending[0].CategoryName)
}

func TestSubmitQuestionByAdminIsAutoConfirmed(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root")
	require.NoError(t, env.db.Create(&model.Admin{UserID: admin.ID}).Error)
	category := env.createCategory(t, "Science")

	question, err := env.quest.Submit(admin.ID, submitInput(category.ID))
	require.NoError(t, err)
	assert.True(t, question.Confirmed)
	assert.Equal(t, model.QuestionAuthorAdmin, question.Author)
}

func TestSubmitQuestionValidations(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	category := env.createCategory(t, "Science")

	_, err := env.quest.Submit(user.ID, submitInput(9999))
	assert.ErrorIs(t, err, util.ErrCategoryNotFound)

	bad := submitInput(category.ID)
	bad.CorrectAnswer = "E"
	_, err = env.quest.Submit(user.ID, bad)
	assert.ErrorIs(t, err, util.ErrInvalidAnswerOption)
}

func TestGetConfirmedByCategoryHidesAnswerTags(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Science")
	env.createQuestions(t, category.ID, 3)

	questions, err := env.quest.GetConfirmedByCategory(category.ID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, category.ID, questions[0].CategoryID)
	assert.NotEmpty(t, questions[0].Text)
	assert.NotEmpty(t, questions[0].OptionA)

	// 浏览列表的载荷里不允许出现答案标记
	payload, err := json.Marshal(questions)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "correct_answer")

	_, err = env.quest.GetConfirmedByCategory(9999)
	assert.ErrorIs(t, err, util.ErrCategoryNotFound)
}

func TestGetRandomQuestionsValidations(t *testing.T) {
	env := newTestEnv(t)
	category := env.createCategory(t, "Science")
	env.createQuestions(t, category.ID, 2)

	// 分类不存在报 404，而不是题量不足
	_, err := env.quest.GetRandomQuestions(9999, 3)
	assert.ErrorIs(t, err, util.ErrCategoryNotFound)

	_, err = env.quest.GetRandomQuestions(category.ID, 3)
	assert.ErrorIs(t, err, util.ErrNotEnoughQuestions)

	questions, err := env.quest.GetRandomQuestions(category.ID, 2)
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestReviewQuestion(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	category := env.createCategory(t, "Science")

	approved, err := env.quest.Submit(user.ID, submitInput(category.ID))
	require.NoError(t, err)
	rejected, err := env.quest.Submit(user.ID, submitInput(category.ID))
	require.NoError(t, err)

	require.NoError(t, env.quest.Review(approved.ID, true))
	require.NoError(t, env.quest.Review(rejected.ID, false))

	count, err := env.question.CountConfirmedByCategory(category.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// 驳回即删除
	var total int64
	require.NoError(t, env.db.Model(&model.Question{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)

	err = env.quest.Review(9999, true)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}
