package repository

import (
	"errors"
	"time"

	"quizclash_backend/internal/model"

	"gorm.io/gorm"
)

type GameSessionRepository struct {
	DB *gorm.DB
}

func NewGameSessionRepository(db *gorm.DB) *GameSessionRepository {
	return &GameSessionRepository{DB: db}
}

func (r *GameSessionRepository) Create(session *model.GameSession) error {
	return r.DB.Create(session).Error
}

// FindByID 不存在时返回 (nil, nil)
func (r *GameSessionRepository) FindByID(id uint) (*model.GameSession, error) {
	var session model.GameSession
	err := r.DB.First(&session, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GameSessionRepository) FindActiveByUser(userID uint) ([]model.GameSession, error) {
	var sessions []model.GameSession
	err := r.DB.
		Where("(player1_id = ? OR player2_id = ?) AND status = ?", userID, userID, model.GameStatusOngoing).
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *GameSessionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.GameSession{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *GameSessionRepository) FindEndedSince(since time.Time) ([]model.GameSession, error) {
	var sessions []model.GameSession
	err := r.DB.
		Where("status = ? AND end_time >= ?", model.GameStatusEnded, since).
		Find(&sessions).Error
	return sessions, err
}

// End 在给定事务内把对局置为 ended 并写入结束时间。
// 只允许 ongoing→ended，逆向更新不会命中任何行。
func (r *GameSessionRepository) End(tx *gorm.DB, sessionID uint, endTime time.Time) error {
	return tx.Model(&model.GameSession{}).
		Where("id = ? AND status = ?", sessionID, model.GameStatusOngoing).
		Updates(map[string]interface{}{
			"status":   model.GameStatusEnded,
			"end_time": endTime,
		}).Error
}
