package repository

import (
	"errors"
	"math"

	"quizclash_backend/internal/model"

	"gorm.io/gorm"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

type UserStatsRow struct {
	Username        string  `json:"user_name"`
	GameCount       int     `json:"game_count"`
	WinCount        int     `json:"win_count"`
	AverageAccuracy float64 `json:"average_accuracy"`
	XP              int     `json:"xp"`
	WinRatio        float64 `json:"win_ratio"`
}

func (r *StatsRepository) FindByUserID(userID uint) (*UserStatsRow, error) {
	var row UserStatsRow
	err := r.DB.Model(&model.UserStats{}).
		Select("users.username AS username, user_stats.game_count, user_stats.win_count, user_stats.average_accuracy, user_stats.xp").
		Joins("JOIN users ON users.id = user_stats.user_id").
		Where("user_stats.user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Username == "" {
		return nil, gorm.ErrRecordNotFound
	}
	if row.GameCount > 0 {
		row.WinRatio = math.Round(float64(row.WinCount)/float64(row.GameCount)*1000) / 10
	}
	return &row, nil
}

type LeaderboardEntry struct {
	Username  string `json:"user_name"`
	XP        int    `json:"xp"`
	WinCount  int    `json:"win_count"`
	GameCount int    `json:"game_count"`
}

// FindTopByXP 总榜：user_stats 按 XP 降序取前 limit 名
func (r *StatsRepository) FindTopByXP(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.DB.Model(&model.UserStats{}).
		Select("users.username AS username, user_stats.xp, user_stats.win_count, user_stats.game_count").
		Joins("JOIN users ON users.id = user_stats.user_id").
		Order("user_stats.xp DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// ApplyGameResult 对局结束时在 finalize 事务内累加一名玩家的统计。
// accuracy 为该局答对率（0..1），平均正确率按局数滚动平均。
func (r *StatsRepository) ApplyGameResult(tx *gorm.DB, userID uint, won bool, xpGained int, accuracy float64) error {
	var stats model.UserStats
	err := tx.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = model.UserStats{UserID: userID}
		if err := tx.Create(&stats).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	total := stats.AverageAccuracy*float64(stats.GameCount) + accuracy
	stats.GameCount++
	stats.AverageAccuracy = total / float64(stats.GameCount)
	stats.XP += xpGained
	if won {
		stats.WinCount++
	}

	return tx.Save(&stats).Error
}
