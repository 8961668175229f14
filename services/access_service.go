package services

import (
	"errors"

	"quizdeck/models"

	"gorm.io/gorm"
)

// AccessService is the read-side gate for classes and quizzes. It ORs every
// known visibility signal (ownership, legacy booleans, public listing rows,
// claimed shares) rather than trusting any single one, so a partially
// migrated record still resolves the way the owner intended.
type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// CanReadClass reports whether the user may read the class. ErrNotFound takes
// priority over a denied read when the class row is absent.
func (s *AccessService) CanReadClass(userID, classID uint) (bool, error) {
	var class models.Class
	if err := s.db.First(&class, classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	if class.UserID == userID || class.IsPublic {
		return true, nil
	}
	listed, err := s.hasPublicItem(models.TargetClass, class.ID)
	if err != nil || listed {
		return listed, err
	}
	return s.hasSharedAccess(userID, models.TargetClass, class.ID)
}

// CanReadQuiz reports whether the user may read the quiz. Class-level
// visibility carries down: a publicly listed or shared class exposes its
// quizzes for reading.
func (s *AccessService) CanReadQuiz(userID, quizID uint) (bool, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	if quiz.UserID == userID {
		return true, nil
	}
	if listed, err := s.hasPublicItem(models.TargetQuiz, quiz.ID); err != nil || listed {
		return listed, err
	}
	if listed, err := s.hasPublicItem(models.TargetClass, quiz.ClassID); err != nil || listed {
		return listed, err
	}
	// Legacy fallback: the class boolean may predate the listing table.
	var class models.Class
	if err := s.db.First(&class, quiz.ClassID).Error; err == nil && class.IsPublic {
		return true, nil
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if shared, err := s.hasSharedAccess(userID, models.TargetQuiz, quiz.ID); err != nil || shared {
		return shared, err
	}
	return s.hasSharedAccess(userID, models.TargetClass, quiz.ClassID)
}

func (s *AccessService) hasPublicItem(targetType string, targetID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.PublicItem{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count > 0, err
}

func (s *AccessService) hasSharedAccess(userID uint, targetType string, targetID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.SharedAccess{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}
