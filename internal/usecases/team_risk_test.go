package usecases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
	"sprint-review.backend/internal/domain/entities"
	"sprint-review.backend/internal/usecases"
)

func TestScoreTeamRisk(t *testing.T) {
	risk := usecases.ScoreTeamRisk([]string{"A", "B", "C"}, map[string]float64{"A": 2.5, "B": 4})
	assert.Equal(t, null.Float64From(2.5), risk.MinAvgScore)
	assert.Equal(t, null.StringFrom("A"), risk.MinID)
}

func TestScoreTeamRisk_TieGoesToFirstMember(t *testing.T) {
	risk := usecases.ScoreTeamRisk([]string{"C", "B", "A"}, map[string]float64{"A": 3, "B": 3, "C": 3})
	assert.Equal(t, "C", risk.MinID.String)
}

func TestScoreTeamRisk_NoScores(t *testing.T) {
	risk := usecases.ScoreTeamRisk([]string{"A"}, map[string]float64{"Z": 1})
	assert.False(t, risk.MinAvgScore.Valid)
	assert.False(t, risk.MinID.Valid)
}

func TestSeverityFor(t *testing.T) {
	cases := []struct {
		in   null.Float64
		want entities.Severity
	}{
		{null.Float64{}, entities.SeverityNotFilledOut},
		{null.Float64From(1), entities.SeverityBad},
		{null.Float64From(2), entities.SeverityBad},
		{null.Float64From(2.01), entities.SeverityMedium},
		{null.Float64From(4), entities.SeverityMedium},
		{null.Float64From(4.5), entities.SeverityGood},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, usecases.SeverityFor(tc.in), "%v", tc.in)
	}
}

func TestSortByRisk_NullsLastAndStable(t *testing.T) {
	summary := func(id string, v *float64) entities.TeamSummary {
		s := entities.TeamSummary{Team: entities.Team{ID: entities.TeamID(id)}}
		s.MinAvgScore = null.Float64FromPtr(v)
		return s
	}
	f := func(v float64) *float64 { return &v }

	items := []entities.TeamSummary{
		summary("none1", nil),
		summary("three", f(3)),
		summary("one", f(1)),
		summary("none2", nil),
		summary("threeAgain", f(3)),
	}
	usecases.SortByRisk(items)

	var order []string
	for _, s := range items {
		order = append(order, string(s.ID))
	}
	assert.Equal(t, []string{"one", "three", "threeAgain", "none1", "none2"}, order)
}
