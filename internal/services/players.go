package services

import (
	"log"
	"strings"

	"party-game-backend/internal/apperr"
	"party-game-backend/internal/models"
	"party-game-backend/internal/notify"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlayerService struct {
	db  *gorm.DB
	bus notify.Bus
}

func NewPlayerService(db *gorm.DB, bus notify.Bus) *PlayerService {
	return &PlayerService{db: db, bus: bus}
}

type RegisterResult struct {
	Player   models.Player `json:"player"`
	IsRejoin bool          `json:"is_rejoin"`
}

// Register creates a player identity, or returns the existing one when the
// device token is already known (page reloads keep the token client-side).
// When sessionID is set, player_joined is pushed to that session's topic.
func (s *PlayerService) Register(name string, teamID *uint, deviceToken string, sessionID *uint) (*RegisterResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("player name is required")
	}

	if teamID != nil {
		var team models.Team
		if err := s.db.First(&team, *teamID).Error; err != nil {
			return nil, apperr.NotFound("team %d not found", *teamID)
		}
	}

	if deviceToken != "" {
		var existing models.Player
		if err := s.db.Preload("Team").Where("device_token = ?", deviceToken).
			First(&existing).Error; err == nil {
			return &RegisterResult{Player: existing, IsRejoin: true}, nil
		}
	} else {
		deviceToken = uuid.NewString()
	}

	player := models.Player{Name: name, TeamID: teamID, DeviceToken: deviceToken}
	if err := s.db.Create(&player).Error; err != nil {
		return nil, err
	}
	s.db.Preload("Team").First(&player, player.ID)

	if sessionID != nil {
		s.publish(notify.ParticipantsTopic(*sessionID), notify.NewEvent(notify.EventPlayerJoined, map[string]any{
			"player_id":  player.ID,
			"name":       player.Name,
			"session_id": *sessionID,
		}))
	}

	return &RegisterResult{Player: player}, nil
}

func (s *PlayerService) GetByToken(deviceToken string) (*models.Player, error) {
	var player models.Player
	if err := s.db.Preload("Team").Where("device_token = ?", deviceToken).
		First(&player).Error; err != nil {
		return nil, apperr.NotFound("unknown player token")
	}
	return &player, nil
}

func (s *PlayerService) CreateTeam(name, color string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("team name is required")
	}

	team := models.Team{Name: name, Color: color}
	if err := s.db.Create(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *PlayerService) ListTeams() ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.Order("name ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *PlayerService) publish(topic string, event notify.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(topic, event); err != nil {
		log.Printf("notify: publish %s on %s failed: %v", event.EventType(), topic, err)
	}
}
