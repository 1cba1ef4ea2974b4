package models

import "time"

type Player struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	TeamID      *uint     `gorm:"index" json:"team_id,omitempty"`
	Team        *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	DeviceToken string    `gorm:"size:64;uniqueIndex;not null" json:"device_token"`
	CreatedAt   time.Time `json:"created_at"`
}
