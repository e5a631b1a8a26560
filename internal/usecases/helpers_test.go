package usecases_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"sprint-review.backend/internal/domain/entities"
	domainRepos "sprint-review.backend/internal/domain/repositories"
	"sprint-review.backend/internal/infrastructure/datasources"
	"sprint-review.backend/internal/infrastructure/locks"
	infraRepos "sprint-review.backend/internal/infrastructure/repositories"
	"sprint-review.backend/internal/usecases"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// storeEnv wires the usecases to real repositories over in-memory sqlite.
type storeEnv struct {
	db         *gorm.DB
	students   *infraRepos.StudentRepository
	teams      *infraRepos.TeamRepository
	reviews    *infraRepos.ReviewRepository
	users      *infraRepos.UserRepository
	sprints    *infraRepos.SprintRepository
	writer     *usecases.BatchWriter
	revoker    *MockCredentialRevoker
	locker     *locks.LocalKeyLock
	membership *usecases.MembershipUsecase
	queries    *usecases.RosterQueryUsecase
	accounts   *usecases.AccountUsecase
	reviewUC   *usecases.ReviewUsecase
	sprintUC   *usecases.SprintUsecase
}

func newStoreEnv(t *testing.T, limits domainRepos.StoreLimits) *storeEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:usecases_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, datasources.Migrate(db))

	env := &storeEnv{
		db:       db,
		students: infraRepos.NewStudentRepository(db, limits),
		teams:    infraRepos.NewTeamRepository(db, limits),
		reviews:  infraRepos.NewReviewRepository(db, limits),
		users:    infraRepos.NewUserRepository(db),
		sprints:  infraRepos.NewSprintRepository(db),
		revoker:  new(MockCredentialRevoker),
	}
	uow := infraRepos.NewUnitOfWork(db)
	locker := locks.NewLocalKeyLock()
	env.locker = locker
	timeout := 5 * time.Second

	env.writer = usecases.NewBatchWriter(uow, env.students, env.teams, env.reviews, env.users, limits, timeout)
	env.membership = usecases.NewMembershipUsecase(env.students, env.teams, env.reviews, env.users, env.writer, locker, env.revoker, limits, timeout)
	env.membership.SetClock(func() time.Time { return fixedNow })
	aggregator := usecases.NewReviewAggregator(env.reviews, limits, timeout)
	env.queries = usecases.NewRosterQueryUsecase(env.teams, env.students, aggregator, 4, timeout)
	env.accounts = usecases.NewAccountUsecase(env.students, env.users, env.writer, locker, timeout)
	env.accounts.SetClock(func() time.Time { return fixedNow })
	env.reviewUC = usecases.NewReviewUsecase(env.reviews, env.students, env.sprints, locker, timeout)
	env.reviewUC.SetClock(func() time.Time { return fixedNow })
	env.sprintUC = usecases.NewSprintUsecase(env.sprints, env.students, env.teams, env.reviews, timeout)
	return env
}

func rosterRow(team, id, first, last string) map[string]string {
	return map[string]string{
		entities.ColumnTeam:              team,
		entities.ColumnComputingID:       id,
		entities.ColumnFirstName:         first,
		entities.ColumnLastName:          last,
		entities.ColumnPreferredPronouns: "",
		entities.ColumnGithubID:          id + "-gh",
		entities.ColumnDiscordID:         "",
	}
}

func (e *storeEnv) seedSprint(t *testing.T, id string) *entities.Sprint {
	t.Helper()
	s := &entities.Sprint{
		ID:            id,
		Name:          "Sprint " + id,
		SprintDueDate: fixedNow.Add(-48 * time.Hour),
		ReviewDueDate: fixedNow.Add(48 * time.Hour),
	}
	require.NoError(t, e.sprints.Upsert(context.Background(), s))
	return s
}

func (e *storeEnv) seedReview(t *testing.T, reviewer, reviewee, sprint, score string) *entities.Review {
	t.Helper()
	r := &entities.Review{
		ReviewerID:         reviewer,
		ReviewedTeammateID: reviewee,
		SprintID:           sprint,
		ReviewCompleted:    true,
	}
	if score != "" {
		r.OverallEvaluationScore.SetValid(score)
	}
	require.NoError(t, e.reviews.Upsert(context.Background(), r))
	return r
}

// requireConsistent checks that every team lists exactly the students
// whose team field names it.
func (e *storeEnv) requireConsistent(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	teams, err := e.teams.List(ctx, "")
	require.NoError(t, err)
	students, err := e.students.List(ctx, "")
	require.NoError(t, err)

	byTeam := map[entities.TeamID][]string{}
	for _, s := range students {
		if s.Team != "" {
			byTeam[s.Team] = append(byTeam[s.Team], s.ComputingID)
		}
	}
	for _, team := range teams {
		listed := team.MemberIDs()
		sort.Strings(listed)
		owned := byTeam[team.ID]
		sort.Strings(owned)
		if owned == nil {
			owned = []string{}
		}
		require.Equal(t, owned, listed, "team %s membership", team.ID)
		delete(byTeam, team.ID)
	}
	require.Empty(t, byTeam, "students reference teams that do not exist")
}
