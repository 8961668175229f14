package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"

	"quizdeck/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SessionService grades quiz submissions and records them as immutable
// QuizSession rows. The per-quiz leaderboard in Redis is best-effort: a Redis
// failure is logged and never fails a submission.
type SessionService struct {
	db     *gorm.DB
	redis  *redis.Client
	access *AccessService
}

func NewSessionService(db *gorm.DB, redisClient *redis.Client, access *AccessService) *SessionService {
	return &SessionService{db: db, redis: redisClient, access: access}
}

type SubmitSessionRequest struct {
	QuizID    uint                   `json:"quiz_id" binding:"required"`
	Answers   map[string]interface{} `json:"answers"`
	TimeSpent interface{}            `json:"time_spent"`
}

type SubmitSessionResponse struct {
	SessionID      string `json:"session_id"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Percentage     int    `json:"percentage"`
}

type LeaderboardEntry struct {
	UserID   uint   `json:"user_id"`
	UserName string `json:"user_name"`
	Score    int    `json:"score"`
}

// Submit grades the submission against the quiz's leaf questions and persists
// the session. Composite questions contribute their children to the
// denominator, never themselves.
func (s *SessionService) Submit(userID uint, req *SubmitSessionRequest) (*SubmitSessionResponse, error) {
	readable, err := s.access.CanReadQuiz(userID, req.QuizID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, ErrForbidden
	}

	var questions []models.Question
	if err := s.db.Where("quiz_id = ?", req.QuizID).
		Order("position, id").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	leaves := flattenLeaves(questions)
	score := 0
	for _, q := range leaves {
		if gradeQuestion(q, req.Answers[strconv.FormatUint(uint64(q.ID), 10)]) {
			score++
		}
	}
	total := len(leaves)

	// A nil map would marshal to "null"; keep the stored payload a mapping.
	answers := req.Answers
	if answers == nil {
		answers = map[string]interface{}{}
	}
	rawAnswers, err := json.Marshal(answers)
	if err != nil {
		rawAnswers = []byte("{}")
	}

	session := models.QuizSession{
		UUID:           uuid.NewString(),
		QuizID:         req.QuizID,
		UserID:         userID,
		Score:          score,
		TotalQuestions: total,
		TimeSpent:      coerceSeconds(req.TimeSpent),
		Answers:        string(rawAnswers),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(score) / float64(total) * 100))
	}

	s.updateLeaderboard(req.QuizID, userID, percentage)

	return &SubmitSessionResponse{
		SessionID:      session.UUID,
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
	}, nil
}

// GetQuizSessions returns the caller's own sessions for a quiz, newest first.
func (s *SessionService) GetQuizSessions(userID, quizID uint) ([]models.QuizSession, error) {
	readable, err := s.access.CanReadQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, ErrForbidden
	}

	var sessions []models.QuizSession
	err = s.db.Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// GetLeaderboard returns the top scores for a quiz, served from Redis when
// available and rebuilt from sessions otherwise.
func (s *SessionService) GetLeaderboard(userID, quizID uint, limit int) ([]LeaderboardEntry, error) {
	readable, err := s.access.CanReadQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, ErrForbidden
	}
	if limit <= 0 {
		limit = 10
	}

	if s.redis != nil {
		entries, err := s.leaderboardFromRedis(quizID, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			log.Printf("Failed to read leaderboard for quiz %d from Redis: %v", quizID, err)
		}
	}
	return s.leaderboardFromDB(quizID, limit)
}

func (s *SessionService) updateLeaderboard(quizID, userID uint, percentage int) {
	if s.redis == nil {
		return
	}
	err := s.redis.ZAddGT(context.Background(), leaderboardKey(quizID), redis.Z{
		Score:  float64(percentage),
		Member: strconv.FormatUint(uint64(userID), 10),
	}).Err()
	if err != nil {
		log.Printf("Failed to update leaderboard for quiz %d in Redis: %v", quizID, err)
	}
}

func (s *SessionService) leaderboardFromRedis(quizID uint, limit int) ([]LeaderboardEntry, error) {
	members, err := s.redis.ZRevRangeWithScores(context.Background(), leaderboardKey(quizID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseUint(fmt.Sprintf("%v", member.Member), 10, 32)
		if err != nil {
			continue
		}
		entry := LeaderboardEntry{UserID: uint(id), Score: int(member.Score)}
		var user models.User
		if err := s.db.First(&user, entry.UserID).Error; err == nil {
			entry.UserName = user.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *SessionService) leaderboardFromDB(quizID uint, limit int) ([]LeaderboardEntry, error) {
	var rows []struct {
		UserID   uint
		UserName string
		Score    int
	}
	err := s.db.Model(&models.QuizSession{}).
		Select("quiz_sessions.user_id AS user_id, users.name AS user_name, MAX(CASE WHEN quiz_sessions.total_questions > 0 THEN ROUND(quiz_sessions.score * 100.0 / quiz_sessions.total_questions) ELSE 0 END) AS score").
		Joins("JOIN users ON users.id = quiz_sessions.user_id").
		Where("quiz_sessions.quiz_id = ?", quizID).
		Group("quiz_sessions.user_id, users.name").
		Order("score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = LeaderboardEntry{UserID: row.UserID, UserName: row.UserName, Score: row.Score}
	}
	return entries, nil
}

func leaderboardKey(quizID uint) string {
	return fmt.Sprintf("leaderboard:quiz:%d", quizID)
}

// coerceSeconds turns whatever the client sent as time_spent into a
// non-negative number of seconds, defaulting to 0.
func coerceSeconds(v interface{}) int {
	var seconds int
	switch t := v.(type) {
	case float64:
		seconds = int(t)
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			seconds = n
		}
	}
	if seconds < 0 {
		return 0
	}
	return seconds
}
