package services

import (
	"encoding/json"
	"errors"

	"quizdeck/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db     *gorm.DB
	access *AccessService
}

func NewQuizService(db *gorm.DB, access *AccessService) *QuizService {
	return &QuizService{db: db, access: access}
}

type CreateQuizRequest struct {
	ClassID     uint                    `json:"class_id" binding:"required"`
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"required,min=1"`
}

type CreateQuestionRequest struct {
	Text           string                  `json:"text" binding:"required"`
	Type           string                  `json:"type" binding:"required,oneof=single multiple text drag composite"`
	Position       int                     `json:"position"`
	Options        json.RawMessage         `json:"options"`
	CorrectAnswers json.RawMessage         `json:"correct_answers"`
	Children       []CreateQuestionRequest `json:"children"`
}

type UpdateQuizRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Questions   []CreateQuestionRequest `json:"questions"`
}

func (s *QuizService) CreateQuiz(userID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	var class models.Class
	if err := s.db.First(&class, req.ClassID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if class.UserID != userID {
		return nil, ErrForbidden
	}

	// Start transaction
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	quiz := models.Quiz{
		ClassID:     req.ClassID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := createQuestions(tx, quiz.ID, nil, req.Questions); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return s.GetQuizByID(userID, quiz.ID)
}

// GetQuizByID loads a quiz the user may read. Correct answers are stripped
// from the payload unless the caller owns the quiz.
func (s *QuizService) GetQuizByID(userID, quizID uint) (*models.Quiz, error) {
	readable, err := s.access.CanReadQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, ErrForbidden
	}

	var quiz models.Quiz
	err = s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("parent_id IS NULL").Order("questions.position")
		}).
		Preload("Questions.Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if quiz.UserID != userID {
		stripAnswers(quiz.Questions)
	}
	return &quiz, nil
}

func (s *QuizService) GetClassQuizzes(userID, classID uint) ([]models.Quiz, error) {
	readable, err := s.access.CanReadClass(userID, classID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, ErrForbidden
	}

	var quizzes []models.Quiz
	err = s.db.Where("class_id = ?", classID).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) GetUserQuizzes(userID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (s *QuizService) UpdateQuiz(userID, quizID uint, req *UpdateQuizRequest) (*models.Quiz, error) {
	quiz, err := s.ownedQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}

	// Start transaction
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != "" {
		quiz.Description = req.Description
	}
	if err := tx.Save(quiz).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// If questions are provided, replace all questions
	if req.Questions != nil {
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := createQuestions(tx, quiz.ID, nil, req.Questions); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return s.GetQuizByID(userID, quiz.ID)
}

func (s *QuizService) DeleteQuiz(userID, quizID uint) error {
	quiz, err := s.ownedQuiz(userID, quizID)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.QuizSession{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	for _, del := range []interface{}{&models.PublicItem{}, &models.ShareItem{}, &models.SharedAccess{}} {
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetQuiz, quiz.ID).Delete(del).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Delete(&models.Quiz{}, quiz.ID).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *QuizService) ownedQuiz(userID, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if quiz.UserID != userID {
		return nil, ErrForbidden
	}
	return &quiz, nil
}

func createQuestions(tx *gorm.DB, quizID uint, parentID *uint, reqs []CreateQuestionRequest) error {
	for _, qReq := range reqs {
		if err := validateQuestion(&qReq, parentID != nil); err != nil {
			return err
		}

		question := models.Question{
			QuizID:         quizID,
			ParentID:       parentID,
			Type:           qReq.Type,
			Text:           qReq.Text,
			Position:       qReq.Position,
			Options:        string(qReq.Options),
			CorrectAnswers: string(qReq.CorrectAnswers),
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		if qReq.Type == models.QuestionComposite {
			if err := createQuestions(tx, quizID, &question.ID, qReq.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateQuestion(req *CreateQuestionRequest, isChild bool) error {
	switch req.Type {
	case models.QuestionComposite:
		if isChild {
			return errors.New("composite questions cannot be nested")
		}
		if len(req.Children) == 0 {
			return errors.New("composite questions need at least one child question")
		}
	case models.QuestionSingle:
		if len(decodeStringAnswers(string(req.CorrectAnswers))) != 1 {
			return errors.New("single choice questions must have exactly one correct answer")
		}
	case models.QuestionMultiple, models.QuestionText:
		if len(decodeStringAnswers(string(req.CorrectAnswers))) == 0 {
			return errors.New("question must have at least one correct answer")
		}
	case models.QuestionDrag:
		if len(decodeDragOptions(string(req.Options)).Items) == 0 {
			return errors.New("drag questions must define their draggable items")
		}
	}
	return nil
}

func stripAnswers(questions []models.Question) {
	for i := range questions {
		questions[i].CorrectAnswers = ""
		stripAnswers(questions[i].Children)
	}
}
