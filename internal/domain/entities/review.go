package entities

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

const (
	MinReviewScore = 1
	MaxReviewScore = 5
)

// Review is one directed evaluation, logically keyed by
// (ReviewerID, ReviewedTeammateID, SprintID).
type Review struct {
	ID                     string      `json:"id"`
	ReviewerID             string      `json:"reviewerId"`
	ReviewedTeammateID     string      `json:"reviewedTeammateId"`
	SprintID               string      `json:"sprintId"`
	ReviewCompleted        bool        `json:"reviewCompleted"`
	OverallEvaluationScore null.String `json:"overallEvaluationScore"`
	IsFlagged              bool        `json:"isFlagged"`
	ImprovementFeedback    null.String `json:"improvementFeedback,omitempty"`
	StrengthFeedback       null.String `json:"strengthFeedback,omitempty"`
	CreatedAt              time.Time   `json:"createdAt"`
	UpdatedAt              time.Time   `json:"updatedAt"`
}

// Score parses OverallEvaluationScore. Absent, blank, non-numeric and
// non-finite values report ok=false and must not count toward averages.
func (r *Review) Score() (float64, bool) {
	return ParseScore(r.OverallEvaluationScore)
}

// ParseScore is the numeric policy shared by aggregation and submission.
func ParseScore(raw null.String) (float64, bool) {
	if !raw.Valid {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw.String), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SubmitReviewInput represents a review submission
type SubmitReviewInput struct {
	ReviewerID             string `json:"reviewerId" binding:"required"`
	ReviewedTeammateID     string `json:"reviewedTeammateId" binding:"required"`
	SprintID               string `json:"sprintId" binding:"required"`
	OverallEvaluationScore string `json:"overallEvaluationScore" binding:"required"`
	IsFlagged              bool   `json:"isFlagged"`
	ImprovementFeedback    string `json:"improvementFeedback"`
	StrengthFeedback       string `json:"strengthFeedback"`
}
