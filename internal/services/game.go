package services

import (
	"log"
	"math/rand"
	"time"

	"party-game-backend/internal/apperr"
	"party-game-backend/internal/models"
	"party-game-backend/internal/notify"

	"gorm.io/gorm"
)

// GameService owns the session state machine: pending → in_progress →
// completed, never backward. All notification publishing happens here and in
// ScoringService, after the state mutation committed, and a failing bus can
// never fail the request.
type GameService struct {
	db      *gorm.DB
	content *ContentService
	stats   *StatisticsService
	bus     notify.Bus
	locks   *SessionLocks
}

func NewGameService(db *gorm.DB, content *ContentService, stats *StatisticsService, bus notify.Bus, locks *SessionLocks) *GameService {
	return &GameService{db: db, content: content, stats: stats, bus: bus, locks: locks}
}

type SessionState struct {
	SessionID         uint          `json:"session_id"`
	GameType          string        `json:"game_type"`
	Status            string        `json:"status"`
	CurrentRoundIndex *int          `json:"current_round_index"`
	TotalRounds       int           `json:"total_rounds"`
	CurrentRound      *models.Round `json:"current_round,omitempty"`
}

type RevealResult struct {
	RoundID             uint            `json:"round_id"`
	ContentType         string          `json:"content_type"`
	ImageURL            string          `json:"image_url,omitempty"`
	QuestionText        string          `json:"question_text,omitempty"`
	Choices             []string        `json:"choices,omitempty"`
	CorrectAnswer       string          `json:"correct_answer"`
	Answers             []models.Answer `json:"answers"`
	CorrectAnswersCount int             `json:"correct_answers_count"`
	TotalAnswersCount   int             `json:"total_answers_count"`
}

// Initialize builds one round per resolved content item, in shuffled order.
// Calling it again on a still-pending session appends another shuffled set;
// sessions past pending are rejected.
func (s *GameService) Initialize(sessionID uint, itemIDs []uint) (*models.Session, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, apperr.NotFound("session %d not found", sessionID)
	}
	if session.Status != models.SessionStatusPending {
		return nil, apperr.InvalidState("session %d is %s, rounds can only be added before start", sessionID, session.Status)
	}

	var rounds []models.Round
	switch session.GameType {
	case models.GameTypeImageGuess:
		participants, err := s.content.ResolveParticipants(itemIDs)
		if err != nil {
			return nil, err
		}
		if len(participants) == 0 {
			return nil, apperr.Validation("no participants resolved from selection")
		}
		participants = s.content.EnsureImages(participants)
		for _, p := range participants {
			rounds = append(rounds, models.Round{
				SessionID:   session.ID,
				ContentType: models.ContentTypeImageGuess,
				ImageURL:    p.ImageURL,
				CorrectName: p.Name,
			})
		}
	case models.GameTypeQuiz:
		questions, err := s.content.ResolveQuestions(itemIDs)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return nil, apperr.Validation("no questions resolved from selection")
		}
		for _, q := range questions {
			rounds = append(rounds, models.Round{
				SessionID:     session.ID,
				ContentType:   models.ContentTypeMultipleChoice,
				QuestionText:  q.Text,
				Choices:       q.Choices,
				CorrectChoice: q.CorrectChoice,
			})
		}
	default:
		return nil, apperr.Validation("unknown game type %q", session.GameType)
	}

	rand.Shuffle(len(rounds), func(i, j int) {
		rounds[i], rounds[j] = rounds[j], rounds[i]
	})

	var existing int64
	s.db.Model(&models.Round{}).Where("session_id = ?", session.ID).Count(&existing)
	for i := range rounds {
		rounds[i].OrderNum = int(existing) + i
	}

	if err := s.db.Create(&rounds).Error; err != nil {
		return nil, err
	}

	s.db.Preload("Rounds", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&session, session.ID)
	return &session, nil
}

// Start flips a pending session to in_progress and opens round 0.
func (s *GameService) Start(sessionID uint) (*SessionState, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.loadWithRounds(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusPending {
		return nil, apperr.InvalidState("session %d already started", sessionID)
	}
	if len(session.Rounds) == 0 {
		return nil, apperr.InvalidState("session %d has no rounds", sessionID)
	}

	now := time.Now()
	first := &session.Rounds[0]
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).Where("id = ?", session.ID).Updates(map[string]any{
			"status":        models.SessionStatusInProgress,
			"current_round": 0,
			"started_at":    now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Round{}).Where("id = ?", first.ID).
			Update("started_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(notify.RoundsTopic(session.ID),
		newRoundEvent(first, 0, len(session.Rounds)))

	return s.State(sessionID)
}

// Advance closes the current round and either opens the next one or completes
// the session. round_ended is always published before new_round/game_ended;
// clients rely on that ordering.
func (s *GameService) Advance(sessionID uint) (*SessionState, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.loadWithRounds(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusInProgress || session.CurrentRound == nil {
		return nil, apperr.InvalidState("session %d is not in progress", sessionID)
	}

	current := &session.Rounds[*session.CurrentRound]
	nextIndex := *session.CurrentRound + 1
	now := time.Now()
	finished := nextIndex >= len(session.Rounds)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Round{}).Where("id = ?", current.ID).
			Update("ended_at", now).Error; err != nil {
			return err
		}
		if finished {
			return tx.Model(&models.Session{}).Where("id = ?", session.ID).Updates(map[string]any{
				"status":        models.SessionStatusCompleted,
				"completed_at":  now,
				"current_round": nil,
			}).Error
		}
		if err := tx.Model(&models.Session{}).Where("id = ?", session.ID).
			Update("current_round", nextIndex).Error; err != nil {
			return err
		}
		return tx.Model(&models.Round{}).Where("id = ?", session.Rounds[nextIndex].ID).
			Update("started_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	correctCount, totalCount := s.answerCounts(current.ID)
	s.publish(notify.RoundsTopic(session.ID), notify.NewEvent(notify.EventRoundEnded, map[string]any{
		"round_id":              current.ID,
		"correct_answer":        current.CanonicalAnswer(),
		"correct_answers_count": correctCount,
		"total_answers_count":   totalCount,
	}))

	if finished {
		stats, err := s.stats.Aggregate(session.ID)
		if err != nil {
			log.Printf("statistics: aggregate for session %d failed: %v", session.ID, err)
		}
		s.publish(notify.SessionTopic(session.ID), notify.NewEvent(notify.EventGameEnded, map[string]any{
			"session_id": session.ID,
			"statistics": stats,
		}))
	} else {
		s.publish(notify.RoundsTopic(session.ID),
			newRoundEvent(&session.Rounds[nextIndex], nextIndex, len(session.Rounds)))
	}

	return s.State(sessionID)
}

// CurrentRound returns the in-progress session's current round, or nil.
func (s *GameService) CurrentRound(sessionID uint) (*models.Round, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, apperr.NotFound("session %d not found", sessionID)
	}
	if session.Status != models.SessionStatusInProgress || session.CurrentRound == nil {
		return nil, nil
	}

	var round models.Round
	err := s.db.Where("session_id = ? AND order_num = ?", session.ID, *session.CurrentRound).
		First(&round).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// State is the authoritative snapshot clients re-fetch on every push event.
func (s *GameService) State(sessionID uint) (*SessionState, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, apperr.NotFound("session %d not found", sessionID)
	}

	var totalRounds int64
	s.db.Model(&models.Round{}).Where("session_id = ?", sessionID).Count(&totalRounds)

	state := &SessionState{
		SessionID:         session.ID,
		GameType:          session.GameType,
		Status:            session.Status,
		CurrentRoundIndex: session.CurrentRound,
		TotalRounds:       int(totalRounds),
	}
	if session.Status == models.SessionStatusInProgress && session.CurrentRound != nil {
		var round models.Round
		if err := s.db.Where("session_id = ? AND order_num = ?", session.ID, *session.CurrentRound).
			First(&round).Error; err == nil {
			state.CurrentRound = &round
		}
	}
	return state, nil
}

// Reveal discloses a round's correct answer and all submitted answers. It is
// read-only: the round stays open until the host advances. Only the current
// round of an in-progress session can be revealed.
func (s *GameService) Reveal(roundID uint) (*RevealResult, error) {
	var round models.Round
	if err := s.db.First(&round, roundID).Error; err != nil {
		return nil, apperr.NotFound("round %d not found", roundID)
	}

	var session models.Session
	if err := s.db.First(&session, round.SessionID).Error; err != nil {
		return nil, apperr.NotFound("session %d not found", round.SessionID)
	}
	if session.Status != models.SessionStatusInProgress ||
		session.CurrentRound == nil || *session.CurrentRound != round.OrderNum {
		return nil, apperr.InvalidState("round %d is not the current round", roundID)
	}

	var answers []models.Answer
	err := s.db.Where("round_id = ?", round.ID).
		Order("submitted_at ASC").
		Preload("Player").
		Preload("Player.Team").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	result := &RevealResult{
		RoundID:           round.ID,
		ContentType:       round.ContentType,
		ImageURL:          round.ImageURL,
		QuestionText:      round.QuestionText,
		Choices:           round.Choices,
		CorrectAnswer:     round.CanonicalAnswer(),
		Answers:           answers,
		TotalAnswersCount: len(answers),
	}
	for _, a := range answers {
		if a.IsCorrect {
			result.CorrectAnswersCount++
		}
	}

	s.publish(notify.RoundsTopic(session.ID), notify.NewEvent(notify.EventRevealAnswers, map[string]any{
		"round_id":       round.ID,
		"correct_answer": result.CorrectAnswer,
	}))

	return result, nil
}

func (s *GameService) loadWithRounds(sessionID uint) (*models.Session, error) {
	var session models.Session
	err := s.db.Preload("Rounds", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&session, sessionID).Error
	if err != nil {
		return nil, apperr.NotFound("session %d not found", sessionID)
	}
	return &session, nil
}

func (s *GameService) answerCounts(roundID uint) (correct, total int64) {
	s.db.Model(&models.Answer{}).Where("round_id = ?", roundID).Count(&total)
	s.db.Model(&models.Answer{}).Where("round_id = ? AND is_correct = ?", roundID, true).Count(&correct)
	return correct, total
}

func newRoundEvent(round *models.Round, index, total int) notify.Event {
	fields := map[string]any{
		"round_id":     round.ID,
		"round_index":  index,
		"total_rounds": total,
		"content_type": round.ContentType,
	}
	if round.ContentType == models.ContentTypeImageGuess {
		fields["image_url"] = round.ImageURL
	} else {
		fields["question_text"] = round.QuestionText
		fields["choices"] = round.Choices
	}
	return notify.NewEvent(notify.EventNewRound, fields)
}

func (s *GameService) publish(topic string, event notify.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(topic, event); err != nil {
		log.Printf("notify: publish %s on %s failed: %v", event.EventType(), topic, err)
	}
}
