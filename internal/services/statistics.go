package services

import (
	"sort"

	"party-game-backend/internal/apperr"
	"party-game-backend/internal/models"

	"gorm.io/gorm"
)

type StatisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{db: db}
}

type PlayerStanding struct {
	Position       int    `json:"position"`
	PlayerID       uint   `json:"player_id"`
	Name           string `json:"name"`
	TeamName       string `json:"team_name,omitempty"`
	TotalAnswers   int    `json:"total_answers"`
	CorrectAnswers int    `json:"correct_answers"`
	Points         int    `json:"points"`
}

type TeamStanding struct {
	Position       int    `json:"position"`
	TeamID         uint   `json:"team_id"`
	Name           string `json:"name"`
	TotalAnswers   int    `json:"total_answers"`
	CorrectAnswers int    `json:"correct_answers"`
	Points         int    `json:"points"`
}

type SessionStatistics struct {
	SessionID      uint             `json:"session_id"`
	GameType       string           `json:"game_type"`
	TotalRounds    int              `json:"total_rounds"`
	TotalAnswers   int              `json:"total_answers"`
	CorrectAnswers int              `json:"correct_answers"`
	Players        []PlayerStanding `json:"players"`
	Teams          []TeamStanding   `json:"teams,omitempty"`
}

// Aggregate tallies all stored answers for a session. Points ride along but are
// always zero today; rankings are driven by correct-answer counts.
func (s *StatisticsService) Aggregate(sessionID uint) (*SessionStatistics, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, apperr.NotFound("session %d not found", sessionID)
	}

	var totalRounds int64
	s.db.Model(&models.Round{}).Where("session_id = ?", sessionID).Count(&totalRounds)

	var answers []models.Answer
	err := s.db.
		Joins("JOIN rounds ON rounds.id = answers.round_id").
		Where("rounds.session_id = ?", sessionID).
		Preload("Player").
		Preload("Player.Team").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	stats := &SessionStatistics{
		SessionID:    session.ID,
		GameType:     session.GameType,
		TotalRounds:  int(totalRounds),
		TotalAnswers: len(answers),
	}

	players := make(map[uint]*PlayerStanding)
	teams := make(map[uint]*TeamStanding)
	for _, a := range answers {
		if a.IsCorrect {
			stats.CorrectAnswers++
		}

		p, ok := players[a.PlayerID]
		if !ok {
			p = &PlayerStanding{PlayerID: a.PlayerID}
			if a.Player != nil {
				p.Name = a.Player.Name
				if a.Player.Team != nil {
					p.TeamName = a.Player.Team.Name
				}
			}
			players[a.PlayerID] = p
		}
		p.TotalAnswers++
		p.Points += a.PointsEarned
		if a.IsCorrect {
			p.CorrectAnswers++
		}

		if a.Player != nil && a.Player.Team != nil {
			team, ok := teams[a.Player.Team.ID]
			if !ok {
				team = &TeamStanding{TeamID: a.Player.Team.ID, Name: a.Player.Team.Name}
				teams[a.Player.Team.ID] = team
			}
			team.TotalAnswers++
			team.Points += a.PointsEarned
			if a.IsCorrect {
				team.CorrectAnswers++
			}
		}
	}

	for _, p := range players {
		stats.Players = append(stats.Players, *p)
	}
	sort.Slice(stats.Players, func(i, j int) bool {
		a, b := stats.Players[i], stats.Players[j]
		if a.CorrectAnswers != b.CorrectAnswers {
			return a.CorrectAnswers > b.CorrectAnswers
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.Name < b.Name
	})
	for i := range stats.Players {
		stats.Players[i].Position = i + 1
	}

	for _, t := range teams {
		stats.Teams = append(stats.Teams, *t)
	}
	sort.Slice(stats.Teams, func(i, j int) bool {
		a, b := stats.Teams[i], stats.Teams[j]
		if a.CorrectAnswers != b.CorrectAnswers {
			return a.CorrectAnswers > b.CorrectAnswers
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.Name < b.Name
	})
	for i := range stats.Teams {
		stats.Teams[i].Position = i + 1
	}

	return stats, nil
}
