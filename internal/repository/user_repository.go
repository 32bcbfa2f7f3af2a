package repository

import (
	"errors"
	"quizclash_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create 创建用户并初始化 user_stats，同一事务内完成
func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&model.UserStats{UserID: user.ID}).Error
	})
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.DB.Find(&users).Error
	return users, err
}

func (r *UserRepository) IsBanned(userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.BannedUser{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) IsAdmin(userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Admin{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// randomFn MySQL 写作 RAND()，SQLite/Postgres 写作 RANDOM()
func (r *UserRepository) randomFn() string {
	if r.DB.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}

// FindRandomOpponent 在非封禁用户中均匀随机挑选一名对手，排除发起者本人。
// 没有可用对手时返回 (nil, nil)。
func (r *UserRepository) FindRandomOpponent(excludeID uint) (*model.User, error) {
	var user model.User
	err := r.DB.
		Where("id <> ?", excludeID).
		Where("id NOT IN (?)", r.DB.Model(&model.BannedUser{}).Select("user_id")).
		Order(r.randomFn()).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOpponentByUsername 按用户名找对手，封禁或与发起者相同视为不可用
func (r *UserRepository) FindOpponentByUsername(username string, excludeID uint) (*model.User, error) {
	var user model.User
	err := r.DB.
		Where("username = ?", username).
		Where("id <> ?", excludeID).
		Where("id NOT IN (?)", r.DB.Model(&model.BannedUser{}).Select("user_id")).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
