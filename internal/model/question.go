package model

const (
	QuestionAuthorAdmin = "Admin"
	QuestionAuthorUser  = "User"
)

// Question 题库题目，用户提交后待管理员审核（Confirmed=false）
// swagger:model Question
type Question struct {
	BaseModel
	CategoryID      uint   `gorm:"not null;index" json:"c_id"`
	Text            string `gorm:"type:text;not null" json:"q_text"`
	OptionA         string `gorm:"size:255;not null" json:"option_a"`
	OptionB         string `gorm:"size:255;not null" json:"option_b"`
	OptionC         string `gorm:"size:255;not null" json:"option_c"`
	OptionD         string `gorm:"size:255;not null" json:"option_d"`
	CorrectAnswer   string `gorm:"size:1;not null" json:"correct_answer"`
	DifficultyLevel string `gorm:"size:20" json:"difficulty_level"`
	Author          string `gorm:"size:20;default:'User'" json:"author"`
	Confirmed       bool   `gorm:"default:false;index" json:"confirmation_status"`
}

func (Question) TableName() string {
	return "questions"
}
