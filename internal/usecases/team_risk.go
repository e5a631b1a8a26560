package usecases

import (
	"slices"

	"github.com/volatiletech/null/v8"
	"sprint-review.backend/internal/domain/entities"
)

// ScoreTeamRisk picks the lowest average among memberIDs. Ties go to the
// member that comes first in memberIDs; members without an average are skipped.
func ScoreTeamRisk(memberIDs []string, perMemberAverage map[string]float64) entities.TeamRisk {
	var risk entities.TeamRisk
	for _, id := range memberIDs {
		avg, ok := perMemberAverage[id]
		if !ok {
			continue
		}
		if !risk.MinAvgScore.Valid || avg < risk.MinAvgScore.Float64 {
			risk.MinAvgScore = null.Float64From(avg)
			risk.MinID = null.StringFrom(id)
		}
	}
	return risk
}

// SeverityFor bands a team's lowest average.
func SeverityFor(minAvg null.Float64) entities.Severity {
	switch {
	case !minAvg.Valid:
		return entities.SeverityNotFilledOut
	case minAvg.Float64 <= 2:
		return entities.SeverityBad
	case minAvg.Float64 <= 4:
		return entities.SeverityMedium
	default:
		return entities.SeverityGood
	}
}

// SortByRisk orders summaries by MinAvgScore ascending with unscored
// teams last. Equal keys keep their input order.
func SortByRisk(summaries []entities.TeamSummary) {
	slices.SortStableFunc(summaries, func(a, b entities.TeamSummary) int {
		switch {
		case !a.MinAvgScore.Valid && !b.MinAvgScore.Valid:
			return 0
		case !a.MinAvgScore.Valid:
			return 1
		case !b.MinAvgScore.Valid:
			return -1
		case a.MinAvgScore.Float64 < b.MinAvgScore.Float64:
			return -1
		case a.MinAvgScore.Float64 > b.MinAvgScore.Float64:
			return 1
		default:
			return 0
		}
	})
}
