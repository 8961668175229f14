package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"quizdeck/models"

	"gorm.io/gorm"
)

// VisibilityService toggles the public-listing and share state of classes and
// quizzes. The PublicItem table is the canonical "is it listed" signal; the
// legacy booleans (Class.IsPublic, Quiz.Published) are kept in sync inside the
// same transaction so readers never observe the two disagreeing.
type VisibilityService struct {
	db *gorm.DB
}

func NewVisibilityService(db *gorm.DB) *VisibilityService {
	return &VisibilityService{db: db}
}

type SetVisibilityRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   uint   `json:"target_id" binding:"required"`
	Enabled    *bool  `json:"enabled" binding:"required"`
}

type ClaimRequest struct {
	ClassID uint   `json:"class_id"`
	QuizID  uint   `json:"quiz_id"`
	Code    string `json:"code"`
}

type ClaimResponse struct {
	TargetType string `json:"target_type"`
	TargetID   uint   `json:"target_id"`
}

type RevokeAccessRequest struct {
	ClassID uint `json:"class_id"`
	QuizID  uint `json:"quiz_id"`
}

// SetPublic flips the public listing for a class or quiz.
//
// Enabling a class publishes every quiz in it; disabling a class unpublishes
// every currently-published quiz and leaves already-private ones untouched.
// Enabling a quiz pulls its class public as a side effect without touching
// sibling quizzes; disabling a quiz touches only that quiz. All mutations
// commit atomically or not at all.
func (s *VisibilityService) SetPublic(userID uint, targetType string, targetID uint, enabled bool) error {
	if targetType != models.TargetClass && targetType != models.TargetQuiz {
		return ErrInvalidTarget
	}
	if targetID == 0 {
		return ErrMissingTarget
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var err error
	switch targetType {
	case models.TargetClass:
		err = s.setClassPublic(tx, userID, targetID, enabled)
	case models.TargetQuiz:
		err = s.setQuizPublic(tx, userID, targetID, enabled)
	}
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *VisibilityService) setClassPublic(tx *gorm.DB, userID, classID uint, enabled bool) error {
	var class models.Class
	if err := tx.First(&class, classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if class.UserID != userID {
		return ErrForbidden
	}

	if err := tx.Model(&class).Update("is_public", enabled).Error; err != nil {
		return err
	}

	if enabled {
		if err := upsertPublicItem(tx, models.TargetClass, class.ID); err != nil {
			return err
		}
		// Class is the gate: publish every quiz in it.
		var quizzes []models.Quiz
		if err := tx.Where("class_id = ?", class.ID).Find(&quizzes).Error; err != nil {
			return err
		}
		for _, quiz := range quizzes {
			if err := tx.Model(&models.Quiz{}).Where("id = ?", quiz.ID).Update("published", true).Error; err != nil {
				return err
			}
			if err := upsertPublicItem(tx, models.TargetQuiz, quiz.ID); err != nil {
				return err
			}
		}
		return nil
	}

	if err := removePublicItem(tx, models.TargetClass, class.ID); err != nil {
		return err
	}
	// Only quizzes that are currently published are pulled back; quizzes the
	// owner already unpublished individually stay as they are.
	var published []models.Quiz
	if err := tx.Where("class_id = ? AND published = ?", class.ID, true).Find(&published).Error; err != nil {
		return err
	}
	for _, quiz := range published {
		if err := tx.Model(&models.Quiz{}).Where("id = ?", quiz.ID).Update("published", false).Error; err != nil {
			return err
		}
		if err := removePublicItem(tx, models.TargetQuiz, quiz.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *VisibilityService) setQuizPublic(tx *gorm.DB, userID, quizID uint, enabled bool) error {
	var quiz models.Quiz
	if err := tx.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if quiz.UserID != userID {
		return ErrForbidden
	}

	if enabled {
		// A public quiz implies a public class. Siblings are not touched:
		// this is a single-quiz override, not a class-level toggle.
		var class models.Class
		if err := tx.First(&class, quiz.ClassID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !class.IsPublic {
			if err := tx.Model(&class).Update("is_public", true).Error; err != nil {
				return err
			}
			if err := upsertPublicItem(tx, models.TargetClass, class.ID); err != nil {
				return err
			}
		}
		if err := tx.Model(&quiz).Update("published", true).Error; err != nil {
			return err
		}
		return upsertPublicItem(tx, models.TargetQuiz, quiz.ID)
	}

	// Unpublishing a quiz leaves the class and sibling quizzes alone.
	if err := tx.Model(&quiz).Update("published", false).Error; err != nil {
		return err
	}
	return removePublicItem(tx, models.TargetQuiz, quiz.ID)
}

// SetShare enables or disables share-by-link for a class or quiz. Unlike
// public toggling, shares never cascade: each target has its own flag.
func (s *VisibilityService) SetShare(userID uint, targetType string, targetID uint, enabled bool) error {
	if targetType != models.TargetClass && targetType != models.TargetQuiz {
		return ErrInvalidTarget
	}
	if targetID == 0 {
		return ErrMissingTarget
	}

	ownerID, err := s.targetOwner(targetType, targetID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}

	if !enabled {
		return s.db.Where("target_type = ? AND target_id = ?", targetType, targetID).
			Delete(&models.ShareItem{}).Error
	}

	// Idempotent: repeated enables keep the existing row and code.
	var item models.ShareItem
	err = s.db.Where("target_type = ? AND target_id = ?", targetType, targetID).First(&item).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	item = models.ShareItem{
		TargetType: targetType,
		TargetID:   targetID,
		UserID:     userID,
		Code:       generateShareCode(),
	}
	return s.db.Create(&item).Error
}

// Claim grants the caller read-only access to a shared class or quiz.
// Exactly one of classID, quizID or code selects the target.
func (s *VisibilityService) Claim(userID uint, req *ClaimRequest) (*ClaimResponse, error) {
	selectors := 0
	if req.ClassID != 0 {
		selectors++
	}
	if req.QuizID != 0 {
		selectors++
	}
	if req.Code != "" {
		selectors++
	}
	if selectors != 1 {
		return nil, ErrBadRequest
	}

	var targetType string
	var targetID uint
	switch {
	case req.Code != "":
		var item models.ShareItem
		if err := s.db.Where("code = ?", req.Code).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		targetType, targetID = item.TargetType, item.TargetID
	case req.ClassID != 0:
		targetType, targetID = models.TargetClass, req.ClassID
	default:
		targetType, targetID = models.TargetQuiz, req.QuizID
	}

	if req.Code == "" {
		if _, err := s.targetOwner(targetType, targetID); err != nil {
			return nil, err
		}
		var count int64
		if err := s.db.Model(&models.ShareItem{}).
			Where("target_type = ? AND target_id = ?", targetType, targetID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotShared
		}
	}

	access := models.SharedAccess{UserID: userID, TargetType: targetType, TargetID: targetID}
	if err := s.db.Where(&access).FirstOrCreate(&access).Error; err != nil {
		return nil, err
	}
	return &ClaimResponse{TargetType: targetType, TargetID: targetID}, nil
}

// RevokeAccess removes the caller's own claimed access to a target. Revoking
// quiz access that was only ever inherited from a class-level claim is a
// silent no-op: no per-quiz exception list exists.
func (s *VisibilityService) RevokeAccess(userID uint, req *RevokeAccessRequest) error {
	var targetType string
	var targetID uint
	switch {
	case req.ClassID != 0 && req.QuizID == 0:
		targetType, targetID = models.TargetClass, req.ClassID
	case req.QuizID != 0 && req.ClassID == 0:
		targetType, targetID = models.TargetQuiz, req.QuizID
	default:
		return ErrBadRequest
	}

	return s.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&models.SharedAccess{}).Error
}

// ListPublicClasses returns every class with a public listing row.
func (s *VisibilityService) ListPublicClasses() ([]models.Class, error) {
	var classes []models.Class
	err := s.db.
		Joins("JOIN public_items ON public_items.target_type = ? AND public_items.target_id = classes.id", models.TargetClass).
		Order("classes.created_at DESC").
		Find(&classes).Error
	return classes, err
}

// ListPublicQuizzes returns every quiz with a public listing row.
func (s *VisibilityService) ListPublicQuizzes() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.
		Joins("JOIN public_items ON public_items.target_type = ? AND public_items.target_id = quizzes.id", models.TargetQuiz).
		Order("quizzes.created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// ListSharedClasses returns the classes the user has claimed access to.
func (s *VisibilityService) ListSharedClasses(userID uint) ([]models.Class, error) {
	var classes []models.Class
	err := s.db.
		Joins("JOIN shared_accesses ON shared_accesses.target_type = ? AND shared_accesses.target_id = classes.id AND shared_accesses.user_id = ?", models.TargetClass, userID).
		Order("classes.created_at DESC").
		Find(&classes).Error
	return classes, err
}

// ListSharedQuizzes returns the quizzes the user has claimed access to.
func (s *VisibilityService) ListSharedQuizzes(userID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.
		Joins("JOIN shared_accesses ON shared_accesses.target_type = ? AND shared_accesses.target_id = quizzes.id AND shared_accesses.user_id = ?", models.TargetQuiz, userID).
		Order("quizzes.created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// GetShareCode returns the active share code for an owned target, if any.
func (s *VisibilityService) GetShareCode(userID uint, targetType string, targetID uint) (string, error) {
	if targetType != models.TargetClass && targetType != models.TargetQuiz {
		return "", ErrInvalidTarget
	}
	ownerID, err := s.targetOwner(targetType, targetID)
	if err != nil {
		return "", err
	}
	if ownerID != userID {
		return "", ErrForbidden
	}
	var item models.ShareItem
	if err := s.db.Where("target_type = ? AND target_id = ?", targetType, targetID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return item.Code, nil
}

func (s *VisibilityService) targetOwner(targetType string, targetID uint) (uint, error) {
	switch targetType {
	case models.TargetClass:
		var class models.Class
		if err := s.db.First(&class, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrNotFound
			}
			return 0, err
		}
		return class.UserID, nil
	default:
		var quiz models.Quiz
		if err := s.db.First(&quiz, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrNotFound
			}
			return 0, err
		}
		return quiz.UserID, nil
	}
}

func upsertPublicItem(tx *gorm.DB, targetType string, targetID uint) error {
	item := models.PublicItem{TargetType: targetType, TargetID: targetID}
	return tx.Where(&item).FirstOrCreate(&item).Error
}

func removePublicItem(tx *gorm.DB, targetType string, targetID uint) error {
	return tx.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&models.PublicItem{}).Error
}

func generateShareCode() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
