package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"party-game-backend/internal/apperr"
	"party-game-backend/internal/models"
	"party-game-backend/internal/notify"

	"gorm.io/gorm"
)

type ScoringService struct {
	db    *gorm.DB
	bus   notify.Bus
	locks *SessionLocks
}

func NewScoringService(db *gorm.DB, bus notify.Bus, locks *SessionLocks) *ScoringService {
	return &ScoringService{db: db, bus: bus, locks: locks}
}

// Evaluate checks a guess against the round's canonical answer: trimmed,
// case-insensitive exact match. No partial credit, no fuzzy matching.
func (s *ScoringService) Evaluate(round *models.Round, guessedValue string) bool {
	guess := strings.TrimSpace(guessedValue)
	want := strings.TrimSpace(round.CanonicalAnswer())
	return guess != "" && strings.EqualFold(guess, want)
}

// SubmitAnswer records one answer per (round, player). Points stay at zero and
// the client-reported response time is dropped; both fields exist in the schema
// but nothing computes them yet.
func (s *ScoringService) SubmitAnswer(roundID, playerID uint, guessedValue string, responseTimeMs *int) (*models.Answer, error) {
	_ = responseTimeMs

	var round models.Round
	if err := s.db.First(&round, roundID).Error; err != nil {
		return nil, apperr.NotFound("round %d not found", roundID)
	}

	unlock := s.locks.Lock(round.SessionID)
	defer unlock()

	var session models.Session
	if err := s.db.First(&session, round.SessionID).Error; err != nil {
		return nil, apperr.NotFound("session %d not found", round.SessionID)
	}
	if session.Status != models.SessionStatusInProgress ||
		session.CurrentRound == nil || *session.CurrentRound != round.OrderNum {
		return nil, apperr.InvalidState("round %d is not accepting answers", roundID)
	}

	var player models.Player
	if err := s.db.First(&player, playerID).Error; err != nil {
		return nil, apperr.NotFound("player %d not found", playerID)
	}

	var existing models.Answer
	if err := s.db.Where("round_id = ? AND player_id = ?", roundID, playerID).
		First(&existing).Error; err == nil {
		return nil, apperr.Duplicate("player %d already answered round %d", playerID, roundID)
	}

	answer := models.Answer{
		RoundID:      roundID,
		PlayerID:     playerID,
		GuessedValue: guessedValue,
		IsCorrect:    s.Evaluate(&round, guessedValue),
		PointsEarned: 0,
		SubmittedAt:  time.Now(),
	}
	if err := s.db.Create(&answer).Error; err != nil {
		// The unique index on (round_id, player_id) backs up the check above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("player %d already answered round %d", playerID, roundID)
		}
		return nil, err
	}
	s.db.Preload("Player").Preload("Player.Team").First(&answer, answer.ID)

	var answersCount int64
	s.db.Model(&models.Answer{}).Where("round_id = ?", roundID).Count(&answersCount)

	s.publish(notify.AnswersTopic(session.ID, roundID), notify.NewEvent(notify.EventAnswerSubmitted, map[string]any{
		"round_id":    roundID,
		"player_id":   playerID,
		"player_name": player.Name,
	}))
	s.publish(notify.ScoresTopic(session.ID), notify.NewEvent(notify.EventScoreUpdate, map[string]any{
		"round_id":            roundID,
		"total_answers_count": answersCount,
	}))

	return &answer, nil
}

func (s *ScoringService) publish(topic string, event notify.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(topic, event); err != nil {
		log.Printf("notify: publish %s on %s failed: %v", event.EventType(), topic, err)
	}
}
