package models

import "time"

type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"size:7;default:''" json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
