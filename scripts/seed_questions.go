// 手动导入题库脚本
//
// 首次部署或清库后，把 scripts/questions.yaml 里的题目批量写入数据库。
// 导入的题目直接标记为已审核，分类不存在时自动创建。
//
// 用法: go run scripts/seed_questions.go

package main

import (
	"log"
	"os"
	"strings"

	"quizclash_backend/internal/config"
	"quizclash_backend/internal/model"
	"quizclash_backend/pkg/database"
	"quizclash_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

type seedQuestion struct {
	Category        string `yaml:"category"`
	Text            string `yaml:"text"`
	OptionA         string `yaml:"option_a"`
	OptionB         string `yaml:"option_b"`
	OptionC         string `yaml:"option_c"`
	OptionD         string `yaml:"option_d"`
	CorrectAnswer   string `yaml:"correct_answer"`
	DifficultyLevel string `yaml:"difficulty_level"`
}

type seedFile struct {
	Questions []seedQuestion `yaml:"questions"`
}

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	// 导入前确保表结构就绪
	cfg.ForceMigrate = true
	db, err := database.InitDB(&cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	seedData, err := os.ReadFile("scripts/questions.yaml")
	if err != nil {
		log.Fatalf("无法读取题库文件: %v", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(seedData, &seed); err != nil {
		log.Fatalf("解析题库文件失败: %v", err)
	}

	log.Printf("开始导入 %d 道题目...", len(seed.Questions))

	imported := 0
	for _, q := range seed.Questions {
		answer := strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
		if answer != "A" && answer != "B" && answer != "C" && answer != "D" {
			log.Printf("跳过非法答案选项 %q: %s", q.CorrectAnswer, q.Text)
			continue
		}

		var category model.Category
		if err := db.Where("name = ?", q.Category).First(&category).Error; err != nil {
			category = model.Category{Name: q.Category}
			if err := db.Create(&category).Error; err != nil {
				log.Fatalf("创建分类失败: %v", err)
			}
		}

		question := model.Question{
			CategoryID:      category.ID,
			Text:            q.Text,
			OptionA:         q.OptionA,
			OptionB:         q.OptionB,
			OptionC:         q.OptionC,
			OptionD:         q.OptionD,
			CorrectAnswer:   answer,
			DifficultyLevel: q.DifficultyLevel,
			Author:          model.QuestionAuthorAdmin,
			Confirmed:       true,
		}
		if err := db.Create(&question).Error; err != nil {
			log.Fatalf("写入题目失败: %v", err)
		}
		imported++
	}

	log.Printf("完成！共导入 %d 道题目", imported)
}
