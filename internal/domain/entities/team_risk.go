package entities

import "github.com/volatiletech/null/v8"

// ReviewCompletion is the aggregate of one team's reviews for one sprint.
type ReviewCompletion struct {
	Expected         int                `json:"expected"`
	Actual           int                `json:"actual"`
	PendingReviews   int                `json:"pendingReviews"`
	PerMemberAverage map[string]float64 `json:"perMemberAverage"`
	// PendingByReviewer counts reviews each member still owes.
	PendingByReviewer map[string]int `json:"pendingByReviewer,omitempty"`
}

// TeamRisk is the lowest per-member average on a team and whose it is.
type TeamRisk struct {
	MinAvgScore null.Float64 `json:"minAvgScore"`
	MinID       null.String  `json:"minId"`
}

// Severity is the display band for a team's lowest average.
type Severity string

const (
	SeverityNotFilledOut Severity = "not filled out"
	SeverityBad          Severity = "bad"
	SeverityMedium       Severity = "medium"
	SeverityGood         Severity = "good"
)

// TeamSummary is a Team decorated with its sprint completion and risk.
type TeamSummary struct {
	Team
	PendingReviews int          `json:"pendingReviews"`
	MinAvgScore    null.Float64 `json:"minAvgScore"`
	MinID          null.String  `json:"minId"`
	Severity       Severity     `json:"severity"`
}

// TeamPage is one page of teams ranked by risk.
type TeamPage struct {
	Teams       []TeamSummary `json:"teams"`
	Total       int           `json:"total"`
	HasNextPage bool          `json:"hasNextPage"`
}
