package services

import (
	"testing"

	"quizdeck/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.Quiz{},
		&models.Question{},
		&models.PublicItem{},
		&models.ShareItem{},
		&models.SharedAccess{},
		&models.QuizSession{},
		&models.ChatMessage{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: name + "@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createClass(t *testing.T, db *gorm.DB, userID uint, isPublic bool) models.Class {
	t.Helper()
	class := models.Class{UserID: userID, Name: "Biology 101", IsPublic: isPublic}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}
	if isPublic {
		item := models.PublicItem{TargetType: models.TargetClass, TargetID: class.ID}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("failed to create public item: %v", err)
		}
	}
	return class
}

func createQuiz(t *testing.T, db *gorm.DB, classID, userID uint, published bool) models.Quiz {
	t.Helper()
	quiz := models.Quiz{ClassID: classID, UserID: userID, Title: "Midterm", Published: published}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("failed to create quiz: %v", err)
	}
	if published {
		item := models.PublicItem{TargetType: models.TargetQuiz, TargetID: quiz.ID}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("failed to create public item: %v", err)
		}
	}
	return quiz
}

func createQuestion(t *testing.T, db *gorm.DB, quizID uint, parentID *uint, qType, options, correct string) models.Question {
	t.Helper()
	question := models.Question{
		QuizID:         quizID,
		ParentID:       parentID,
		Type:           qType,
		Text:           "Question",
		Options:        options,
		CorrectAnswers: correct,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("failed to create question: %v", err)
	}
	return question
}

func hasPublicItem(t *testing.T, db *gorm.DB, targetType string, targetID uint) bool {
	t.Helper()
	var count int64
	if err := db.Model(&models.PublicItem{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count public items: %v", err)
	}
	return count > 0
}

func reloadQuiz(t *testing.T, db *gorm.DB, id uint) models.Quiz {
	t.Helper()
	var quiz models.Quiz
	if err := db.First(&quiz, id).Error; err != nil {
		t.Fatalf("failed to reload quiz: %v", err)
	}
	return quiz
}

func reloadClass(t *testing.T, db *gorm.DB, id uint) models.Class {
	t.Helper()
	var class models.Class
	if err := db.First(&class, id).Error; err != nil {
		t.Fatalf("failed to reload class: %v", err)
	}
	return class
}
