package models

import (
	"time"
)

type User struct {
	UID       string `gorm:"column:uid;type:varchar(128);primaryKey"`
	StudentID string `gorm:"type:varchar(64);index"`
	Email     string `gorm:"type:varchar(255);not null"`
	Role      string `gorm:"type:varchar(32);not null;default:'student'"`
	CreatedAt time.Time
}

func (User) TableName() string { return "users" }
