package service

import (
	"errors"
	"strings"

	"quizclash_backend/internal/model"
	"quizclash_backend/internal/repository"
	"quizclash_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	questionRepo *repository.QuestionRepository
	categoryRepo *repository.CategoryRepository
	userRepo     *repository.UserRepository
}

func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	categoryRepo *repository.CategoryRepository,
	userRepo *repository.UserRepository,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

type SubmitQuestionInput struct {
	CategoryID      uint   `json:"category_id" binding:"required"`
	Text            string `json:"q_text" binding:"required"`
	OptionA         string `json:"option_a" binding:"required"`
	OptionB         string `json:"option_b" binding:"required"`
	OptionC         string `json:"option_c" binding:"required"`
	OptionD         string `json:"option_d" binding:"required"`
	CorrectAnswer   string `json:"correct_answer" binding:"required"`
	DifficultyLevel string `json:"difficulty_level"`
}

// Submit 玩家投稿题目，进入待审核池。管理员投稿直接过审。
func (s *QuestionService) Submit(userID uint, input *SubmitQuestionInput) (*model.Question, error) {
	if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}

	answer := strings.ToUpper(strings.TrimSpace(input.CorrectAnswer))
	if answer != "A" && answer != "B" && answer != "C" && answer != "D" {
		return nil, util.ErrInvalidAnswerOption
	}

	isAdmin, err := s.userRepo.IsAdmin(userID)
	if err != nil {
		return nil, err
	}

	author := model.QuestionAuthorUser
	if isAdmin {
		author = model.QuestionAuthorAdmin
	}

	question := &model.Question{
		CategoryID:      input.CategoryID,
		Text:            input.Text,
		OptionA:         input.OptionA,
		OptionB:         input.OptionB,
		OptionC:         input.OptionC,
		OptionD:         input.OptionD,
		CorrectAnswer:   answer,
		DifficultyLevel: input.DifficultyLevel,
		Author:          author,
		Confirmed:       isAdmin,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

// QuestionView 面向玩家的题目视图，不携带正确答案标记
type QuestionView struct {
	QuestionID      uint   `json:"q_id"`
	CategoryID      uint   `json:"c_id"`
	Text            string `json:"q_text"`
	OptionA         string `json:"option_a"`
	OptionB         string `json:"option_b"`
	OptionC         string `json:"option_c"`
	OptionD         string `json:"option_d"`
	DifficultyLevel string `json:"difficulty_level"`
}

// GetConfirmedByCategory 某分类下全部已审核题目（随机顺序）。
// 这是对战外的浏览列表，正确答案不下发。
func (s *QuestionService) GetConfirmedByCategory(categoryID uint) ([]QuestionView, error) {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	questions, err := s.questionRepo.FindConfirmedByCategory(categoryID, 0)
	if err != nil {
		return nil, err
	}
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{
			QuestionID:      q.ID,
			CategoryID:      q.CategoryID,
			Text:            q.Text,
			OptionA:         q.OptionA,
			OptionB:         q.OptionB,
			OptionC:         q.OptionC,
			OptionD:         q.OptionD,
			DifficultyLevel: q.DifficultyLevel,
		})
	}
	return views, nil
}

func (s *QuestionService) CountConfirmedByCategory(categoryID uint) (int64, error) {
	return s.questionRepo.CountConfirmedByCategory(categoryID)
}

// GetRandomQuestions 从分类中随机抽 count 道已审核题目
func (s *QuestionService) GetRandomQuestions(categoryID uint, count int) ([]model.Question, error) {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	questions, err := s.questionRepo.FindConfirmedByCategory(categoryID, count)
	if err != nil {
		return nil, err
	}
	if len(questions) < count {
		return nil, util.ErrNotEnoughQuestions
	}
	return questions, nil
}

func (s *QuestionService) GetPending() ([]repository.PendingQuestionRow, error) {
	return s.questionRepo.FindPending()
}

// Review 审核投稿：approve 过审入库，否则删除
func (s *QuestionService) Review(questionID uint, approve bool) error {
	if _, err := s.questionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	return s.questionRepo.Confirm(questionID, approve)
}
