package repository

import (
	"quizclash_backend/internal/model"

	"gorm.io/gorm"
)

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) Ban(userID uint, reason string) error {
	return r.DB.Create(&model.BannedUser{UserID: userID, BanReason: reason}).Error
}

func (r *AdminRepository) Unban(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.BannedUser{}).Error
}

type BannedUserRow struct {
	UserID    uint   `json:"u_id"`
	Username  string `json:"user_name"`
	Email     string `json:"email"`
	BanReason string `json:"ban_reason"`
	BanDate   string `json:"ban_date"`
}

func (r *AdminRepository) FindBanned() ([]BannedUserRow, error) {
	var rows []BannedUserRow
	err := r.DB.Model(&model.BannedUser{}).
		Select("banned_users.user_id AS user_id, users.username AS username, users.email AS email, banned_users.ban_reason AS ban_reason, banned_users.ban_date AS ban_date").
		Joins("JOIN users ON users.id = banned_users.user_id").
		Scan(&rows).Error
	return rows, err
}

func (r *AdminRepository) CountBanned() (int64, error) {
	var count int64
	err := r.DB.Model(&model.BannedUser{}).Count(&count).Error
	return count, err
}
