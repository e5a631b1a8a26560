package entities

import "time"

// Sprint represents a sprint. Reviews for it open once SprintDueDate
// passes and close at ReviewDueDate.
type Sprint struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	SprintDueDate time.Time `json:"sprintDueDate" yaml:"sprintDueDate"`
	ReviewDueDate time.Time `json:"reviewDueDate" yaml:"reviewDueDate"`
}

// IsReviewOpen reports whether reviews may be submitted at now.
func (s *Sprint) IsReviewOpen(now time.Time) bool {
	return now.After(s.SprintDueDate) && !now.After(s.ReviewDueDate)
}

// SprintProgress is a reviewer's completion for one sprint.
type SprintProgress struct {
	Sprint
	CompletedReviews int `json:"completedReviews"`
	TotalReviews     int `json:"totalReviews"`
}
