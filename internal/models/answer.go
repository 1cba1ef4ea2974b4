package models

import "time"

type Answer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RoundID        uint      `gorm:"not null;uniqueIndex:idx_round_player" json:"round_id"`
	PlayerID       uint      `gorm:"not null;uniqueIndex:idx_round_player" json:"player_id"`
	Player         *Player   `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	GuessedValue   string    `gorm:"size:500;not null" json:"guessed_value"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	PointsEarned   int       `gorm:"not null;default:0" json:"points_earned"`
	ResponseTimeMs *int      `json:"response_time_ms,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}
