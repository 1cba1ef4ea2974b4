package models

import "time"

type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	Choices       []string  `gorm:"serializer:json;not null" json:"choices"`
	CorrectChoice string    `gorm:"size:500;not null" json:"correct_choice"`
	CreatedAt     time.Time `json:"created_at"`
}
