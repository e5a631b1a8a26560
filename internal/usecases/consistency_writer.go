package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
	"sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/pkg/logger"
	"sprint-review.backend/pkg/utils"
)

// MembershipUsecase is the only writer of team membership. Every write
// that changes which students a team holds runs under that team's lock
// and commits the Student and Team documents in the same batch.
type MembershipUsecase struct {
	students repositories.StudentRepository
	teams    repositories.TeamRepository
	reviews  repositories.ReviewRepository
	users    repositories.UserRepository
	writer   *BatchWriter
	locker   repositories.TeamLocker
	revoker  repositories.CredentialRevoker
	limits   repositories.StoreLimits
	timeout  time.Duration
	now      func() time.Time
}

// NewMembershipUsecase creates a new membership usecase
func NewMembershipUsecase(
	students repositories.StudentRepository,
	teams repositories.TeamRepository,
	reviews repositories.ReviewRepository,
	users repositories.UserRepository,
	writer *BatchWriter,
	locker repositories.TeamLocker,
	revoker repositories.CredentialRevoker,
	limits repositories.StoreLimits,
	timeout time.Duration,
) *MembershipUsecase {
	return &MembershipUsecase{
		students: students,
		teams:    teams,
		reviews:  reviews,
		users:    users,
		writer:   writer,
		locker:   locker,
		revoker:  revoker,
		limits:   limits,
		timeout:  timeout,
		now:      time.Now,
	}
}

// SetClock overrides the time source used for joinedAt.
func (u *MembershipUsecase) SetClock(now func() time.Time) { u.now = now }

// ImportRoster parses header-keyed roster rows and writes every accepted
// record. Rejected rows are reported and never written.
func (u *MembershipUsecase) ImportRoster(ctx context.Context, rows []map[string]string) (*entities.RosterResult, error) {
	if len(rows) == 0 {
		return nil, domainerrors.Validation("roster has no data rows")
	}

	parsed := ParseRoster(rows)
	logger.Info(ctx, "Roster parsed",
		zap.Int("rows", len(rows)),
		zap.Int("accepted", parsed.RecordCount()),
		zap.Int("rejected", len(parsed.Rejected)),
		zap.Int("teams", len(parsed.Groups)),
	)

	if len(parsed.Groups) == 0 {
		return &entities.RosterResult{Rejected: parsed.Rejected}, nil
	}

	result, err := u.CreateTeamsAndStudents(ctx, parsed.Groups)
	if result != nil {
		result.Rejected = append(parsed.Rejected, result.Rejected...)
		if result.Rejected == nil {
			result.Rejected = []entities.RowError{}
		}
	}
	return result, err
}

// CreateTeamsAndStudents merges the grouped records into their teams.
// Membership is additive: students already on a team stay on it. A
// student listed under a new team is moved, leaving the old team's list
// in the same batch. Uploads that fit in one batch commit atomically;
// larger ones commit in sequential batches, each of which leaves every
// team it touches consistent with its students.
func (u *MembershipUsecase) CreateTeamsAndStudents(ctx context.Context, groups []entities.RosterGroup) (*entities.RosterResult, error) {
	result := &entities.RosterResult{}
	groups, dupes := dedupeGroupRecords(groups)
	result.Rejected = dupes

	ids := make([]string, 0)
	rosterTeams := make([]string, 0, len(groups))
	for _, g := range groups {
		rosterTeams = append(rosterTeams, string(g.Team))
		for _, rec := range g.Records {
			ids = append(ids, rec.ComputingID)
		}
	}
	if len(ids) == 0 {
		return result, nil
	}

	existing, err := listStudents(ctx, u.students, u.timeout, u.limits.MaxInFilter, ids)
	if err != nil {
		return nil, err
	}

	existing, unlock, err := u.lockRosterTeams(ctx, ids, append(rosterTeams, previousTeams(existing)...))
	if err != nil {
		return nil, err
	}
	defer unlock()

	teamIDs := make([]entities.TeamID, 0, len(groups))
	for _, g := range groups {
		teamIDs = append(teamIDs, g.Team)
	}
	for _, id := range previousTeams(existing) {
		teamIDs = append(teamIDs, entities.TeamID(id))
	}
	teams, err := listTeams(ctx, u.teams, u.timeout, u.limits.MaxInFilter, utils.Dedupe(teamIDs))
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	written := make(map[entities.TeamID]struct{})
	batch := u.writer.NewBatch()

	commit := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := u.writer.Commit(ctx, batch); err != nil {
			logger.Warn(ctx, "Roster import stopped",
				zap.Int("committed_batches", result.Batches),
				zap.Int("committed_students", result.StudentsWritten),
				zap.Bool("store_failure", domainerrors.IsStoreFailure(err)),
				zap.Error(err),
			)
			return err
		}
		result.Batches++
		batch = u.writer.NewBatch()
		return nil
	}

	pending := 0
	for _, g := range groups {
		team, ok := teams[g.Team]
		if !ok {
			team = &entities.Team{ID: g.Team, Name: g.Label}
			teams[g.Team] = team
		}

		for _, rec := range g.Records {
			prev := existing[rec.ComputingID]
			var oldTeam *entities.Team
			if prev != nil && prev.Team != "" && prev.Team != team.ID {
				oldTeam = teams[prev.Team]
			}

			need := 1
			if !batch.Has(teamKey(team.ID)) {
				need++
			}
			if oldTeam != nil && !batch.Has(teamKey(oldTeam.ID)) {
				need++
			}
			if batch.Len() > 0 && !u.writer.Fits(batch, need) {
				if err := commit(); err != nil {
					return result, err
				}
				result.StudentsWritten += pending
				pending = 0
			}

			student := mergeStudent(rec, prev, now)
			if oldTeam != nil {
				oldTeam.RemoveMember(student.ComputingID)
				batch.PutTeam(oldTeam)
				written[oldTeam.ID] = struct{}{}
			}
			team.UpsertMember(student.Member())
			batch.PutStudent(student)
			batch.PutTeam(team)
			written[team.ID] = struct{}{}
			existing[student.ComputingID] = student
			pending++
		}
	}
	if err := commit(); err != nil {
		return result, err
	}
	result.StudentsWritten += pending
	result.TeamsWritten = len(written)

	logger.Info(ctx, "Roster written",
		zap.Int("teams", result.TeamsWritten),
		zap.Int("students", result.StudentsWritten),
		zap.Int("batches", result.Batches),
	)
	return result, nil
}

// AddStudent places one new student on a team, creating the team when
// needed. It fails with Conflict if the computing id is already taken.
func (u *MembershipUsecase) AddStudent(ctx context.Context, rec entities.RosterRecord) (*entities.Student, error) {
	rec = NewRosterRecord(0, map[string]string{
		entities.ColumnTeam:              rec.TeamLabel,
		entities.ColumnComputingID:       rec.ComputingID,
		entities.ColumnFirstName:         rec.FirstName,
		entities.ColumnLastName:          rec.LastName,
		entities.ColumnPreferredPronouns: rec.PreferredPronouns,
		entities.ColumnGithubID:          rec.GithubID,
		entities.ColumnDiscordID:         rec.DiscordID,
	})
	if err := ValidateRosterRecord(&rec); err != nil {
		return nil, err
	}

	unlock, err := lockTeams(ctx, u.locker, u.timeout, string(rec.Team))
	if err != nil {
		return nil, err
	}
	defer unlock()

	_, err = getStudent(ctx, u.students, u.timeout, rec.ComputingID)
	if err == nil {
		return nil, domainerrors.Conflict("Student with this Computing ID already exists")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	team, err := getTeam(ctx, u.teams, u.timeout, rec.Team)
	if errors.Is(err, domainerrors.ErrNotFound) {
		team = &entities.Team{ID: rec.Team, Name: rec.TeamLabel}
	} else if err != nil {
		return nil, err
	}

	student := mergeStudent(rec, nil, u.now().UTC())
	team.UpsertMember(student.Member())

	batch := u.writer.NewBatch()
	batch.PutStudent(student)
	batch.PutTeam(team)
	if err := u.writer.Commit(ctx, batch); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Student added", logger.ComputingID(student.ComputingID), logger.TeamID(string(team.ID)))
	return student, nil
}

// mergeStudent builds the Student for rec. Account state of a student
// that already exists is kept.
func mergeStudent(rec entities.RosterRecord, prev *entities.Student, now time.Time) *entities.Student {
	s := &entities.Student{
		ComputingID:       rec.ComputingID,
		Name:              rec.Name(),
		Team:              rec.Team,
		JoinedAt:          null.TimeFrom(now),
		Active:            false,
		GithubID:          optionalString(rec.GithubID),
		DiscordID:         optionalString(rec.DiscordID),
		PreferredPronouns: optionalString(rec.PreferredPronouns),
	}
	if prev != nil {
		s.JoinedAt = prev.JoinedAt
		s.Active = prev.Active
		s.CreatedAt = prev.CreatedAt
	}
	return s
}

// lockRosterTeams locks the given teams and re-reads the students under
// the lock. Students that moved to a team outside the locked set in the
// meantime widen the set and the lock is taken again.
func (u *MembershipUsecase) lockRosterTeams(ctx context.Context, ids, teams []string) (map[string]*entities.Student, func(), error) {
	locked := utils.Dedupe(teams)
	for attempt := 0; attempt < 3; attempt++ {
		unlock, err := lockTeams(ctx, u.locker, u.timeout, locked...)
		if err != nil {
			return nil, nil, err
		}
		existing, err := listStudents(ctx, u.students, u.timeout, u.limits.MaxInFilter, ids)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		missing := unlockedTeams(previousTeams(existing), locked)
		if len(missing) == 0 {
			return existing, unlock, nil
		}
		unlock()
		logger.Debug(ctx, "Roster students moved before lock, retrying", zap.Strings("teams", missing))
		locked = append(locked, missing...)
	}
	return nil, nil, domainerrors.StoreFailure(domainerrors.ErrTeamBusy)
}

func unlockedTeams(teams, locked []string) []string {
	held := make(map[string]struct{}, len(locked))
	for _, id := range locked {
		held[id] = struct{}{}
	}
	var missing []string
	for _, id := range utils.Dedupe(teams) {
		if _, ok := held[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func previousTeams(students map[string]*entities.Student) []string {
	ids := make([]string, 0, len(students))
	for _, s := range students {
		if s.Team != "" {
			ids = append(ids, string(s.Team))
		}
	}
	return ids
}

// dedupeGroupRecords keeps the first record for each computing id across
// all groups and reports the rest.
func dedupeGroupRecords(groups []entities.RosterGroup) ([]entities.RosterGroup, []entities.RowError) {
	seen := make(map[string]struct{})
	var rejected []entities.RowError
	out := make([]entities.RosterGroup, 0, len(groups))
	for _, g := range groups {
		kept := g
		kept.Records = make([]entities.RosterRecord, 0, len(g.Records))
		for _, rec := range g.Records {
			if _, dup := seen[rec.ComputingID]; dup {
				rejected = append(rejected, entities.RowError{
					Row:         rec.Row,
					ComputingID: rec.ComputingID,
					Reason:      "duplicate " + entities.ColumnComputingID,
				})
				continue
			}
			seen[rec.ComputingID] = struct{}{}
			kept.Records = append(kept.Records, rec)
		}
		if len(kept.Records) > 0 {
			out = append(out, kept)
		}
	}
	return out, rejected
}
