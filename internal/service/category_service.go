package service

import (
	"errors"

	"quizclash_backend/internal/model"
	"quizclash_backend/internal/repository"
	"quizclash_backend/internal/util"

	"gorm.io/gorm"
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	questionRepo *repository.QuestionRepository
}

func NewCategoryService(categoryRepo *repository.CategoryRepository, questionRepo *repository.QuestionRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, questionRepo: questionRepo}
}

type CategoryView struct {
	ID            uint   `json:"category_id"`
	Name          string `json:"name"`
	QuestionCount int64  `json:"question_count"`
}

// GetAll 分类列表，附带各分类已审核题量，
// 方便客户端在开局前判断分类是否够 3 题
func (s *CategoryService) GetAll() ([]CategoryView, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		count, err := s.questionRepo.CountConfirmedByCategory(c.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, CategoryView{ID: c.ID, Name: c.Name, QuestionCount: count})
	}
	return views, nil
}

func (s *CategoryService) Get(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Create(name string) (*model.Category, error) {
	category := &model.Category{Name: name}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) GetMostPopular(limit int) ([]repository.PopularCategoryRow, error) {
	return s.categoryRepo.FindMostPopular(limit)
}
