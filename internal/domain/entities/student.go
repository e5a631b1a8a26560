package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Student represents a student entity. Team is the source of truth for
// membership; an empty Team means the student is unassigned.
type Student struct {
	ComputingID       string      `json:"computingId"`
	Name              string      `json:"name"`
	Team              TeamID      `json:"team"`
	JoinedAt          null.Time   `json:"joinedAt"`
	Active            bool        `json:"active"`
	GithubID          null.String `json:"githubId"`
	DiscordID         null.String `json:"discordId"`
	PreferredPronouns null.String `json:"preferredPronouns"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// Member builds the denormalized team entry for the student.
func (s *Student) Member() TeamMember {
	return TeamMember{
		ComputingID:       s.ComputingID,
		Name:              s.Name,
		GithubID:          s.GithubID,
		DiscordID:         s.DiscordID,
		PreferredPronouns: s.PreferredPronouns,
		Team:              s.Team,
	}
}

// StudentSearchResult is one page of a student search.
type StudentSearchResult struct {
	Students    []*Student `json:"students"`
	Total       int        `json:"total"`
	HasNextPage bool       `json:"hasNextPage"`
}
