package models

import "time"

type Session struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	GameType     string     `gorm:"size:20;not null;index" json:"game_type"`
	Status       string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	TimePerRound int        `gorm:"not null;default:30" json:"time_per_round"`
	CurrentRound *int       `json:"current_round"`
	IsActive     bool       `gorm:"not null;default:false;index" json:"is_active"`
	Rounds       []Round    `gorm:"foreignKey:SessionID" json:"rounds,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

const (
	GameTypeImageGuess = "image_guess"
	GameTypeQuiz       = "quiz"
)

const (
	SessionStatusPending    = "pending"
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
)

func ValidGameType(t string) bool {
	return t == GameTypeImageGuess || t == GameTypeQuiz
}
