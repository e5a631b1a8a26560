package entities

import (
	"strings"
	"time"
	"unicode"

	"github.com/volatiletech/null/v8"
)

// TeamID is the canonical team key: the roster label with every
// whitespace and hyphen character removed. Case is preserved.
type TeamID string

// NormalizeTeamLabel derives the TeamID for a raw roster label.
func NormalizeTeamLabel(label string) TeamID {
	return TeamID(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, label))
}

// TeamMember is the denormalized copy of a Student kept on its Team.
type TeamMember struct {
	ComputingID       string      `json:"computingId"`
	Name              string      `json:"name"`
	GithubID          null.String `json:"githubId"`
	DiscordID         null.String `json:"discordId"`
	PreferredPronouns null.String `json:"preferredPronouns"`
	Team              TeamID      `json:"team"`
}

// Team represents a team entity. Students is a cache of the Student
// records whose Team equals ID; only the roster writer rewrites it.
type Team struct {
	ID        TeamID       `json:"id"`
	Name      string       `json:"name"`
	Students  []TeamMember `json:"students"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// MemberIDs returns computing ids in membership order.
func (t *Team) MemberIDs() []string {
	ids := make([]string, 0, len(t.Students))
	for _, m := range t.Students {
		ids = append(ids, m.ComputingID)
	}
	return ids
}

func (t *Team) indexOf(computingID string) int {
	for i, m := range t.Students {
		if m.ComputingID == computingID {
			return i
		}
	}
	return -1
}

// UpsertMember replaces an existing entry in place or appends a new one.
// It returns true when the member was appended.
func (t *Team) UpsertMember(m TeamMember) bool {
	m.Team = t.ID
	if i := t.indexOf(m.ComputingID); i >= 0 {
		t.Students[i] = m
		return false
	}
	t.Students = append(t.Students, m)
	return true
}

// RemoveMember drops computingID from the list. Removing an absent member is a no-op.
func (t *Team) RemoveMember(computingID string) bool {
	i := t.indexOf(computingID)
	if i < 0 {
		return false
	}
	t.Students = append(t.Students[:i:i], t.Students[i+1:]...)
	return true
}

// Clone returns a copy whose membership list can be mutated independently.
func (t *Team) Clone() *Team {
	c := *t
	c.Students = append([]TeamMember(nil), t.Students...)
	return &c
}
