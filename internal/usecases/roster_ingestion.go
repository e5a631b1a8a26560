package usecases

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/metrics"
)

var rosterValidate = validator.New()

var rosterFieldColumns = map[string]string{
	"TeamLabel":         entities.ColumnTeam,
	"Team":              entities.ColumnTeam,
	"ComputingID":       entities.ColumnComputingID,
	"FirstName":         entities.ColumnFirstName,
	"LastName":          entities.ColumnLastName,
	"PreferredPronouns": entities.ColumnPreferredPronouns,
	"GithubID":          entities.ColumnGithubID,
	"DiscordID":         entities.ColumnDiscordID,
}

// NewRosterRecord builds a record from one header-keyed roster row.
func NewRosterRecord(row int, fields map[string]string) entities.RosterRecord {
	label := strings.TrimSpace(fields[entities.ColumnTeam])
	return entities.RosterRecord{
		Row:               row,
		TeamLabel:         label,
		Team:              entities.NormalizeTeamLabel(label),
		ComputingID:       strings.TrimSpace(fields[entities.ColumnComputingID]),
		FirstName:         strings.TrimSpace(fields[entities.ColumnFirstName]),
		LastName:          strings.TrimSpace(fields[entities.ColumnLastName]),
		PreferredPronouns: strings.TrimSpace(fields[entities.ColumnPreferredPronouns]),
		GithubID:          strings.TrimSpace(fields[entities.ColumnGithubID]),
		DiscordID:         strings.TrimSpace(fields[entities.ColumnDiscordID]),
	}
}

// ValidateRosterRecord returns a Validation error describing why rec
// cannot be written, or nil.
func ValidateRosterRecord(rec *entities.RosterRecord) error {
	if rec.Team == "" && rec.TeamLabel != "" {
		return domainerrors.Validation(fmt.Sprintf("%s %q is empty after normalization", entities.ColumnTeam, rec.TeamLabel))
	}
	if strings.ContainsFunc(rec.ComputingID, unicode.IsSpace) {
		return domainerrors.Validation(entities.ColumnComputingID + " must not contain whitespace")
	}

	err := rosterValidate.Struct(rec)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domainerrors.Validation(err.Error())
	}
	fe := fieldErrs[0]
	column := rosterFieldColumns[fe.StructField()]
	switch fe.Tag() {
	case "required":
		return domainerrors.Validation("missing " + column)
	case "max":
		return domainerrors.Validation(fmt.Sprintf("%s longer than %s characters", column, fe.Param()))
	case "excludesall":
		return domainerrors.Validation(fmt.Sprintf("%s must not contain %q", column, fe.Param()))
	default:
		return domainerrors.Validation(fmt.Sprintf("%s failed %s", column, fe.Tag()))
	}
}

// ParseRoster validates header-keyed rows and groups the accepted ones by
// normalized team, keeping file order. Rows are numbered from 1. A
// computing id seen twice keeps its first row; the later one is rejected.
func ParseRoster(rows []map[string]string) *entities.ParsedRoster {
	parsed := &entities.ParsedRoster{}
	groupIndex := make(map[entities.TeamID]int)
	firstRow := make(map[string]int)

	for i, fields := range rows {
		rec := NewRosterRecord(i+1, fields)

		if err := ValidateRosterRecord(&rec); err != nil {
			parsed.Rejected = append(parsed.Rejected, rowError(rec, err))
			continue
		}
		if prev, ok := firstRow[rec.ComputingID]; ok {
			parsed.Rejected = append(parsed.Rejected, entities.RowError{
				Row:         rec.Row,
				ComputingID: rec.ComputingID,
				Reason:      fmt.Sprintf("duplicate %s, first seen on row %d", entities.ColumnComputingID, prev),
			})
			continue
		}
		firstRow[rec.ComputingID] = rec.Row

		gi, ok := groupIndex[rec.Team]
		if !ok {
			gi = len(parsed.Groups)
			groupIndex[rec.Team] = gi
			parsed.Groups = append(parsed.Groups, entities.RosterGroup{Team: rec.Team, Label: rec.TeamLabel})
		}
		parsed.Groups[gi].Records = append(parsed.Groups[gi].Records, rec)
	}

	metrics.RosterRowsTotal.WithLabelValues("accepted").Add(float64(parsed.RecordCount()))
	metrics.RosterRowsTotal.WithLabelValues("rejected").Add(float64(len(parsed.Rejected)))
	return parsed
}

func rowError(rec entities.RosterRecord, err error) entities.RowError {
	reason := err.Error()
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		reason = appErr.Message
	}
	return entities.RowError{Row: rec.Row, ComputingID: rec.ComputingID, Reason: reason}
}
