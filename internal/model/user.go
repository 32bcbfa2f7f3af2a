package model

import "time"

// swagger:model User
type User struct {
	BaseModel
	Username string `gorm:"size:100;uniqueIndex;not null" json:"user_name"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserStats 每个用户一行，注册时创建，对局结束时由引擎累加
// swagger:model UserStats
type UserStats struct {
	BaseModel
	UserID          uint    `gorm:"uniqueIndex;not null" json:"u_id"`
	GameCount       int     `gorm:"default:0" json:"game_count"`
	WinCount        int     `gorm:"default:0" json:"win_count"`
	AverageAccuracy float64 `gorm:"default:0" json:"average_accuracy"`
	XP              int     `gorm:"default:0" json:"xp"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

// Admin 管理员名单
type Admin struct {
	BaseModel
	UserID uint `gorm:"uniqueIndex;not null" json:"u_id"`
}

func (Admin) TableName() string {
	return "admins"
}

// BannedUser 封禁名单，封禁用户不能登录也不能被匹配
// swagger:model BannedUser
type BannedUser struct {
	BaseModel
	UserID    uint      `gorm:"uniqueIndex;not null" json:"u_id"`
	BanReason string    `gorm:"size:255" json:"ban_reason"`
	BanDate   time.Time `gorm:"autoCreateTime" json:"ban_date"`
}

func (BannedUser) TableName() string {
	return "banned_users"
}
