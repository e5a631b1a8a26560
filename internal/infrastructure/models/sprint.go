package models

import "time"

type Sprint struct {
	ID            string    `gorm:"type:varchar(64);primaryKey"`
	Name          string    `gorm:"type:varchar(255);not null"`
	SprintDueDate time.Time `gorm:"type:timestamp;not null"`
	ReviewDueDate time.Time `gorm:"type:timestamp;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Sprint) TableName() string { return "sprints" }
