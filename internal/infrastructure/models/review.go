package models

import (
	"time"
)

// Review rows are unique per (reviewer, reviewee, sprint); resubmission updates in place.
type Review struct {
	ID                     string  `gorm:"type:varchar(36);primaryKey"`
	ReviewerID             string  `gorm:"type:varchar(64);not null;uniqueIndex:idx_reviews_pair,priority:1;index:idx_reviews_sprint_reviewer,priority:2"`
	ReviewedTeammateID     string  `gorm:"type:varchar(64);not null;uniqueIndex:idx_reviews_pair,priority:2;index"`
	SprintID               string  `gorm:"type:varchar(64);not null;uniqueIndex:idx_reviews_pair,priority:3;index:idx_reviews_sprint_reviewer,priority:1"`
	ReviewCompleted        bool    `gorm:"not null;default:false"`
	OverallEvaluationScore *string `gorm:"type:varchar(32)"`
	IsFlagged              bool    `gorm:"not null;default:false"`
	ImprovementFeedback    *string `gorm:"type:text"`
	StrengthFeedback       *string `gorm:"type:text"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (Review) TableName() string { return "reviews" }
