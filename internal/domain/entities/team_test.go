package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestNormalizeTeamLabel(t *testing.T) {
	cases := map[string]TeamID{
		"Team 1":        "Team1",
		" team-1 ":      "team1",
		"T-2\tB":        "T2B",
		"Alpha Ω-": "AlphaΩ",
		"":              "",
		"---":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTeamLabel(in), "label %q", in)
	}

	// case is preserved
	assert.NotEqual(t, NormalizeTeamLabel("team1"), NormalizeTeamLabel("Team1"))
}

func TestTeam_UpsertAndRemoveMember(t *testing.T) {
	team := &Team{ID: "T1"}

	assert.True(t, team.UpsertMember(TeamMember{ComputingID: "a", Name: "A"}))
	assert.True(t, team.UpsertMember(TeamMember{ComputingID: "b", Name: "B"}))
	assert.False(t, team.UpsertMember(TeamMember{ComputingID: "a", Name: "A2", GithubID: null.StringFrom("gh")}))

	assert.Equal(t, []string{"a", "b"}, team.MemberIDs())
	assert.Equal(t, "A2", team.Students[0].Name)
	assert.Equal(t, TeamID("T1"), team.Students[0].Team)

	assert.True(t, team.RemoveMember("a"))
	assert.False(t, team.RemoveMember("a"))
	assert.Equal(t, []string{"b"}, team.MemberIDs())
}

func TestTeam_CloneIsIndependent(t *testing.T) {
	team := &Team{ID: "T1", Students: []TeamMember{{ComputingID: "a"}, {ComputingID: "b"}, {ComputingID: "c"}}}
	clone := team.Clone()

	clone.RemoveMember("a")
	clone.UpsertMember(TeamMember{ComputingID: "d"})

	assert.Equal(t, []string{"a", "b", "c"}, team.MemberIDs())
	assert.Equal(t, []string{"b", "c", "d"}, clone.MemberIDs())
}

func TestStudent_Member(t *testing.T) {
	s := &Student{
		ComputingID:       "abc1de",
		Name:              "Ada Lovelace",
		Team:              "T1",
		PreferredPronouns: null.StringFrom("she/her"),
	}
	m := s.Member()
	assert.Equal(t, "abc1de", m.ComputingID)
	assert.Equal(t, TeamID("T1"), m.Team)
	assert.Equal(t, "she/her", m.PreferredPronouns.String)
	assert.False(t, m.GithubID.Valid)
}

func TestRosterRecord_Name(t *testing.T) {
	r := RosterRecord{FirstName: " Ada ", LastName: "Lovelace "}
	assert.Equal(t, "Ada Lovelace", r.Name())

	r = RosterRecord{LastName: "Solo"}
	assert.Equal(t, "Solo", r.Name())
}

func TestParsedRoster_RecordCount(t *testing.T) {
	p := ParsedRoster{Groups: []RosterGroup{
		{Team: "T1", Records: make([]RosterRecord, 3)},
		{Team: "T2", Records: make([]RosterRecord, 2)},
	}}
	assert.Equal(t, 5, p.RecordCount())
}
