package repository

import (
	"errors"

	"quizclash_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoundRepository struct {
	DB *gorm.DB
}

func NewRoundRepository(db *gorm.DB) *RoundRepository {
	return &RoundRepository{DB: db}
}

func (r *RoundRepository) Create(tx *gorm.DB, round *model.Round) error {
	return tx.Create(round).Error
}

func (r *RoundRepository) CountBySession(sessionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Round{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, err
}

// FindBySession 按回合号升序返回对局全部回合，带提交记录
func (r *RoundRepository) FindBySession(sessionID uint) ([]model.Round, error) {
	return r.findBySession(r.DB, sessionID)
}

// FindBySessionTx 同 FindBySession，但在给定事务内读取
func (r *RoundRepository) FindBySessionTx(tx *gorm.DB, sessionID uint) ([]model.Round, error) {
	return r.findBySession(tx, sessionID)
}

func (r *RoundRepository) findBySession(db *gorm.DB, sessionID uint) ([]model.Round, error) {
	var rounds []model.Round
	err := db.
		Preload("Submissions").
		Where("session_id = ?", sessionID).
		Order("round_number ASC").
		Find(&rounds).Error
	return rounds, err
}

// FindCurrent 返回回合号最高的回合，没有回合时返回 (nil, nil)
func (r *RoundRepository) FindCurrent(sessionID uint) (*model.Round, error) {
	var round model.Round
	err := r.DB.
		Preload("Submissions").
		Where("session_id = ?", sessionID).
		Order("round_number DESC").
		First(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *RoundRepository) FindBySessionAndNumber(sessionID uint, roundNumber int) (*model.Round, error) {
	var round model.Round
	err := r.DB.
		Preload("Submissions").
		Where("session_id = ? AND round_number = ?", sessionID, roundNumber).
		First(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *RoundRepository) FindByID(id uint) (*model.Round, error) {
	var round model.Round
	err := r.DB.Preload("Submissions").First(&round, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// UpsertSubmission 写入或整条覆盖某玩家对某回合的提交（last write wins）
func (r *RoundRepository) UpsertSubmission(tx *gorm.DB, submission *model.RoundSubmission) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "round_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answers", "score", "submitted_at",
		}),
	}).Create(submission).Error
}
