package models

import (
	"time"
)

type Student struct {
	ComputingID       string     `gorm:"column:computing_id;type:varchar(64);primaryKey"`
	Name              string     `gorm:"type:varchar(255);not null"`
	Team              string     `gorm:"type:varchar(120);index"`
	JoinedAt          *time.Time `gorm:"type:timestamp"`
	Active            bool       `gorm:"not null;default:false"`
	GithubID          *string    `gorm:"column:github_id;type:varchar(120)"`
	DiscordID         *string    `gorm:"column:discord_id;type:varchar(120)"`
	PreferredPronouns *string    `gorm:"type:varchar(60)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Student) TableName() string { return "students" }
