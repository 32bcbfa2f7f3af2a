package database

import (
	"fmt"
	"log"
	"quizclash_backend/internal/config"
	"quizclash_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := &cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if shouldMigrate(cfg) {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	} else {
		log.Println("Skipping database migration (release mode, use -migrate to force)")
	}

	return db, nil
}

// shouldMigrate release 模式默认跳过自动迁移，需显式 -migrate/-migrate-only；
// 其余模式每次启动照常迁移
func shouldMigrate(cfg *config.Config) bool {
	return cfg.ForceMigrate || cfg.Server.Mode != "release"
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.UserStats{},
		&model.Admin{},
		&model.BannedUser{},
		&model.Category{},
		&model.Question{},
		&model.GameSession{},
		&model.Round{},
		&model.RoundSubmission{},
	)
	if err != nil {
		return err
	}

	// 默认分类（空库时插入）
	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count == 0 {
		defaultCategories := []string{
			"General Knowledge",
			"History",
			"Science",
			"Geography",
			"Sports",
			"Entertainment",
		}
		for _, name := range defaultCategories {
			db.Create(&model.Category{Name: name})
		}
	}

	return nil
}
