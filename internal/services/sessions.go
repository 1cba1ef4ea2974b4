package services

import (
	"log"

	"party-game-backend/internal/apperr"
	"party-game-backend/internal/models"
	"party-game-backend/internal/notify"

	"gorm.io/gorm"
)

type SessionService struct {
	db  *gorm.DB
	bus notify.Bus
}

func NewSessionService(db *gorm.DB, bus notify.Bus) *SessionService {
	return &SessionService{db: db, bus: bus}
}

func (s *SessionService) Create(gameType string, timePerRound int) (*models.Session, error) {
	if !models.ValidGameType(gameType) {
		return nil, apperr.Validation("unknown game type %q", gameType)
	}
	if timePerRound <= 0 {
		timePerRound = 30
	}

	session := models.Session{
		GameType:     gameType,
		Status:       models.SessionStatusPending,
		TimePerRound: timePerRound,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	s.publish(notify.GlobalSessionsTopic, notify.NewEvent(notify.EventNewSession, map[string]any{
		"session_id": session.ID,
		"game_type":  session.GameType,
	}))

	return &session, nil
}

func (s *SessionService) Get(sessionID uint) (*models.Session, error) {
	var session models.Session
	err := s.db.Preload("Rounds", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&session, sessionID).Error
	if err != nil {
		return nil, apperr.NotFound("session %d not found", sessionID)
	}
	return &session, nil
}

func (s *SessionService) List() ([]models.Session, error) {
	var sessions []models.Session
	if err := s.db.Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Activate makes the session the featured one for its game type. The previous
// holder is deactivated in the same transaction, so two sessions of the same
// type can never be active at once.
func (s *SessionService) Activate(sessionID uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, apperr.NotFound("session %d not found", sessionID)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Session{}).
			Where("game_type = ? AND id <> ?", session.GameType, session.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Session{}).
			Where("id = ?", session.ID).
			Update("is_active", true).Error
	})
	if err != nil {
		return nil, err
	}
	session.IsActive = true

	s.publish(notify.GlobalSessionsTopic, notify.NewEvent(notify.EventSessionActivated, map[string]any{
		"session_id": session.ID,
		"game_type":  session.GameType,
	}))

	return &session, nil
}

// Active returns the featured session for a game type, if any.
func (s *SessionService) Active(gameType string) (*models.Session, error) {
	if !models.ValidGameType(gameType) {
		return nil, apperr.Validation("unknown game type %q", gameType)
	}

	var session models.Session
	err := s.db.Where("game_type = ? AND is_active = ?", gameType, true).
		First(&session).Error
	if err != nil {
		return nil, apperr.NotFound("no active %s session", gameType)
	}
	return &session, nil
}

func (s *SessionService) publish(topic string, event notify.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(topic, event); err != nil {
		log.Printf("notify: publish %s on %s failed: %v", event.EventType(), topic, err)
	}
}
