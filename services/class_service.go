package services

import (
	"errors"

	"quizdeck/models"

	"gorm.io/gorm"
)

type ClassService struct {
	db     *gorm.DB
	access *AccessService
}

func NewClassService(db *gorm.DB, access *AccessService) *ClassService {
	return &ClassService{db: db, access: access}
}

type CreateClassRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateClassRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *ClassService) CreateClass(userID uint, req *CreateClassRequest) (*models.Class, error) {
	class := models.Class{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(&class).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (s *ClassService) GetUserClasses(userID uint) ([]models.Class, error) {
	var classes []models.Class
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&classes).Error
	return classes, err
}

// GetClassByID loads a class the user is allowed to read, with its quizzes.
func (s *ClassService) GetClassByID(userID, classID uint) (*models.Class, error) {
	readable, err := s.access.CanReadClass(userID, classID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, ErrForbidden
	}

	var class models.Class
	err = s.db.
		Preload("Quizzes", func(db *gorm.DB) *gorm.DB {
			return db.Order("quizzes.created_at DESC")
		}).
		First(&class, classID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &class, nil
}

func (s *ClassService) UpdateClass(userID, classID uint, req *UpdateClassRequest) (*models.Class, error) {
	class, err := s.ownedClass(userID, classID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		class.Name = req.Name
	}
	if req.Description != "" {
		class.Description = req.Description
	}
	if err := s.db.Save(class).Error; err != nil {
		return nil, err
	}
	return class, nil
}

// DeleteClass removes the class, its quizzes, their questions and sessions,
// and every visibility row referring to any of them, in one transaction.
func (s *ClassService) DeleteClass(userID, classID uint) error {
	class, err := s.ownedClass(userID, classID)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var quizIDs []uint
	if err := tx.Model(&models.Quiz{}).Where("class_id = ?", class.ID).Pluck("id", &quizIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(quizIDs) > 0 {
		for _, del := range []interface{}{&models.Question{}, &models.QuizSession{}} {
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(del).Error; err != nil {
				tx.Rollback()
				return err
			}
		}
		for _, del := range []interface{}{&models.PublicItem{}, &models.ShareItem{}, &models.SharedAccess{}} {
			if err := tx.Where("target_type = ? AND target_id IN ?", models.TargetQuiz, quizIDs).Delete(del).Error; err != nil {
				tx.Rollback()
				return err
			}
		}
		if err := tx.Where("class_id = ?", class.ID).Delete(&models.Quiz{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	for _, del := range []interface{}{&models.PublicItem{}, &models.ShareItem{}, &models.SharedAccess{}} {
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetClass, class.ID).Delete(del).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Where("class_id = ?", class.ID).Delete(&models.ChatMessage{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Class{}, class.ID).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *ClassService) ownedClass(userID, classID uint) (*models.Class, error) {
	var class models.Class
	if err := s.db.First(&class, classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if class.UserID != userID {
		return nil, ErrForbidden
	}
	return &class, nil
}
