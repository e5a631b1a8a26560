package models

import (
	"time"

	"gorm.io/datatypes"
)

// TeamMember is the JSON shape of one entry in teams.students.
type TeamMember struct {
	ComputingID       string  `json:"computingId"`
	Name              string  `json:"name"`
	GithubID          *string `json:"githubId"`
	DiscordID         *string `json:"discordId"`
	PreferredPronouns *string `json:"preferredPronouns"`
	Team              string  `json:"team"`
}

type Team struct {
	ID        string         `gorm:"type:varchar(120);primaryKey"`
	Name      string         `gorm:"type:varchar(255);not null"`
	Students  datatypes.JSON `gorm:"not null"` // []TeamMember
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Team) TableName() string { return "teams" }
