package repository

import (
	"quizclash_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) randomFn() string {
	if r.DB.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}

// FindConfirmedByCategory 随机顺序返回某分类下的已审核题目，
// limit <= 0 时不限条数
func (r *QuestionRepository) FindConfirmedByCategory(categoryID uint, limit int) ([]model.Question, error) {
	var questions []model.Question
	query := r.DB.
		Where("category_id = ? AND confirmed = ?", categoryID, true).
		Order(r.randomFn())
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountConfirmedByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).
		Where("category_id = ? AND confirmed = ?", categoryID, true).
		Count(&count).Error
	return count, err
}

type PendingQuestionRow struct {
	model.Question
	CategoryName string `json:"category_name"`
}

func (r *QuestionRepository) FindPending() ([]PendingQuestionRow, error) {
	var rows []PendingQuestionRow
	err := r.DB.Model(&model.Question{}).
		Select("questions.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = questions.category_id").
		Where("questions.confirmed = ?", false).
		Scan(&rows).Error
	return rows, err
}

func (r *QuestionRepository) CountPending() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("confirmed = ?", false).Count(&count).Error
	return count, err
}

// Confirm 审核通过置 confirmed；驳回直接删除，与原审核流程一致
func (r *QuestionRepository) Confirm(id uint, approve bool) error {
	if approve {
		return r.DB.Model(&model.Question{}).Where("id = ?", id).Update("confirmed", true).Error
	}
	return r.DB.Delete(&model.Question{}, id).Error
}
