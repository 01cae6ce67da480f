package models

import "time"

type User struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	Email           string `gorm:"type:varchar(255);not null;index"`
	Name            string `gorm:"type:varchar(255)"`
	AvatarURL       string `gorm:"type:text"`
	TokenIdentifier string `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
