package models

import "time"

// Round content is a tagged variant: image_guess rounds carry an image plus the
// participant's name, quiz rounds carry a question with three choices. The
// canonical answer is never serialized; the reveal endpoint returns it explicitly.
type Round struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	SessionID     uint       `gorm:"not null;index;uniqueIndex:idx_round_order" json:"session_id"`
	OrderNum      int        `gorm:"not null;uniqueIndex:idx_round_order" json:"order_num"`
	ContentType   string     `gorm:"size:20;not null" json:"content_type"`
	ImageURL      string     `gorm:"size:500" json:"image_url,omitempty"`
	CorrectName   string     `gorm:"size:255" json:"-"`
	QuestionText  string     `gorm:"type:text" json:"question_text,omitempty"`
	Choices       []string   `gorm:"serializer:json" json:"choices,omitempty"`
	CorrectChoice string     `gorm:"size:500" json:"-"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	Answers       []Answer   `gorm:"foreignKey:RoundID" json:"answers,omitempty"`
}

const (
	ContentTypeImageGuess     = "image_guess"
	ContentTypeMultipleChoice = "multiple_choice"
)

// CanonicalAnswer returns the value a guess is checked against.
func (r *Round) CanonicalAnswer() string {
	if r.ContentType == ContentTypeMultipleChoice {
		return r.CorrectChoice
	}
	return r.CorrectName
}
