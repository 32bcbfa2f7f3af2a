package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// QuestionSnapshot 回合创建时对题目的逐字快照。
// 快照是权威数据：题库后续修改不影响已开的回合。
type QuestionSnapshot struct {
	QuestionID      uint   `json:"q_id"`
	Text            string `json:"q_text"`
	OptionA         string `json:"option_a"`
	OptionB         string `json:"option_b"`
	OptionC         string `json:"option_c"`
	OptionD         string `json:"option_d"`
	CorrectAnswer   string `json:"correct_answer,omitempty"`
	DifficultyLevel string `json:"difficulty_level"`
}

// SubmittedAnswer 玩家提交的单条作答，is_correct 为客户端自报
type SubmittedAnswer struct {
	QuestionID     uint   `json:"q_id"`
	SelectedOption string `json:"selected_option"`
	IsCorrect      bool   `json:"is_correct"`
}

// Round 对局内的一个回合，回合号在对局内 1..5 连续唯一
// swagger:model Round
type Round struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"r_id"`
	SessionID   uint           `gorm:"not null;index;uniqueIndex:idx_rounds_session_number" json:"s_id"`
	RoundNumber int            `gorm:"not null;uniqueIndex:idx_rounds_session_number" json:"round_number"`
	CategoryID  uint           `gorm:"not null" json:"category_id"`
	StarterID   uint           `gorm:"not null" json:"round_starter"`
	Questions   datatypes.JSON `gorm:"not null" json:"questions"`
	CreatedAt   time.Time      `json:"created_at"`

	Submissions []RoundSubmission `gorm:"foreignKey:RoundID" json:"-"`
}

func (Round) TableName() string {
	return "rounds"
}

// DecodeQuestions 解出回合的题目快照
func (r *Round) DecodeQuestions() ([]QuestionSnapshot, error) {
	var qs []QuestionSnapshot
	if len(r.Questions) == 0 {
		return qs, nil
	}
	err := json.Unmarshal(r.Questions, &qs)
	return qs, err
}

// RoundSubmission 一名玩家对一个回合的提交记录，
// (round_id, player_id) 唯一，重复提交整条覆盖
// swagger:model RoundSubmission
type RoundSubmission struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	RoundID     uint           `gorm:"not null;index;uniqueIndex:idx_submissions_round_player" json:"r_id"`
	PlayerID    uint           `gorm:"not null;uniqueIndex:idx_submissions_round_player" json:"player_id"`
	Answers     datatypes.JSON `json:"answers"`
	Score       int            `gorm:"not null" json:"score"`
	SubmittedAt time.Time      `gorm:"not null" json:"submitted_at"`
}

func (RoundSubmission) TableName() string {
	return "round_submissions"
}

// DecodeAnswers 解出提交的作答列表
func (s *RoundSubmission) DecodeAnswers() ([]SubmittedAnswer, error) {
	var as []SubmittedAnswer
	if len(s.Answers) == 0 {
		return as, nil
	}
	err := json.Unmarshal(s.Answers, &as)
	return as, err
}
