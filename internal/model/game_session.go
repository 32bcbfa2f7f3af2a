package model

import "time"

const (
	GameStatusOngoing = "ongoing"
	GameStatusEnded   = "ended"

	// RoundsPerGame 每局固定 5 回合
	RoundsPerGame = 5
)

// GameSession 一局两人五回合对战。
// 状态只能 ongoing→ended，EndTime 仅在 ended 时设置。
// WinnerID 从不由引擎写入，结果读取时惰性计算（平局为 null）。
// swagger:model GameSession
type GameSession struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"s_id"`
	Player1ID uint       `gorm:"not null;index" json:"player1"`
	Player2ID uint       `gorm:"not null;index" json:"player2"`
	Status    string     `gorm:"size:16;not null;default:'ongoing'" json:"game_status"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	WinnerID  *uint      `json:"winner_id"`
}

func (GameSession) TableName() string {
	return "game_sessions"
}

// IsParticipant 判定用户是否为对局双方之一
func (g *GameSession) IsParticipant(userID uint) bool {
	return userID == g.Player1ID || userID == g.Player2ID
}
