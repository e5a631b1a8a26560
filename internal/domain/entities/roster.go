package entities

import "strings"

// Roster column headers, matched case-sensitively.
const (
	ColumnTeam              = "Team"
	ColumnComputingID       = "Computing ID"
	ColumnLastName          = "Last Name"
	ColumnFirstName         = "First Name"
	ColumnPreferredPronouns = "Preferred Pronouns"
	ColumnGithubID          = "GitHub ID"
	ColumnDiscordID         = "Discord ID"
)

// RosterColumns lists every expected header in file order.
var RosterColumns = []string{
	ColumnTeam,
	ColumnComputingID,
	ColumnLastName,
	ColumnFirstName,
	ColumnPreferredPronouns,
	ColumnGithubID,
	ColumnDiscordID,
}

// RosterRecord is the intent to place one student on one team.
// Row is the 1-based data row the record came from; zero for single adds.
type RosterRecord struct {
	Row               int    `json:"-"`
	TeamLabel         string `json:"team" validate:"required" binding:"required"`
	Team              TeamID `json:"-" validate:"required"`
	ComputingID       string `json:"computingId" validate:"required,max=64,excludesall=/" binding:"required"`
	FirstName         string `json:"firstName" validate:"max=120"`
	LastName          string `json:"lastName" validate:"max=120"`
	PreferredPronouns string `json:"preferredPronouns" validate:"max=60"`
	GithubID          string `json:"githubId" validate:"max=120"`
	DiscordID         string `json:"discordId" validate:"max=120"`
}

// Name joins first and last name the way the roster displays it.
func (r *RosterRecord) Name() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// RowError reports one rejected roster row.
type RowError struct {
	Row         int    `json:"row"`
	ComputingID string `json:"computingId,omitempty"`
	Reason      string `json:"reason"`
}

// RosterGroup holds the records for one normalized team, in file order.
type RosterGroup struct {
	Team    TeamID         `json:"team"`
	Label   string         `json:"label"`
	Records []RosterRecord `json:"records"`
}

// ParsedRoster is the ingestion output handed to the writer.
type ParsedRoster struct {
	Groups   []RosterGroup `json:"groups"`
	Rejected []RowError    `json:"rejected"`
}

// RecordCount returns the number of accepted records.
func (p *ParsedRoster) RecordCount() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Records)
	}
	return n
}

// RosterResult summarizes a roster import.
type RosterResult struct {
	TeamsWritten    int        `json:"teamsWritten"`
	StudentsWritten int        `json:"studentsWritten"`
	Batches         int        `json:"batches"`
	Rejected        []RowError `json:"rejected"`
}

// RemovalResult reports a completed student removal. Warnings carry
// failures that happened after the record store write was final.
type RemovalResult struct {
	ComputingID     string   `json:"computingId"`
	Name            string   `json:"name"`
	Team            TeamID   `json:"team,omitempty"`
	ReviewsDeleted  int      `json:"reviewsDeleted"`
	AccountsDeleted int      `json:"accountsDeleted"`
	Warnings        []string `json:"warnings,omitempty"`
}
