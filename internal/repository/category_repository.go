package repository

import (
	"quizclash_backend/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	err := r.DB.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(category *model.Category) error {
	return r.DB.Create(category).Error
}

type PopularCategoryRow struct {
	CategoryName string `json:"category_name"`
	PlayedCount  int64  `json:"played_count"`
}

// FindMostPopular 按被回合选用次数排序的分类热度视图
func (r *CategoryRepository) FindMostPopular(limit int) ([]PopularCategoryRow, error) {
	var rows []PopularCategoryRow
	err := r.DB.Model(&model.Round{}).
		Select("categories.name AS category_name, COUNT(rounds.id) AS played_count").
		Joins("JOIN categories ON categories.id = rounds.category_id").
		Group("categories.name").
		Order("played_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
