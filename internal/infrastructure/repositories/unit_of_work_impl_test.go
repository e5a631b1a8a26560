package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"sprint-review.backend/internal/domain/entities"
	domainerrors "sprint-review.backend/internal/domain/errors"
)

func TestUnitOfWork_CommitsAcrossRepositories(t *testing.T) {
	db := newTestDB(t)
	createStudentTable(t, db)
	createTeamTable(t, db)
	students := NewStudentRepository(db, testLimits)
	teams := NewTeamRepository(db, testLimits)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	err := uow.Do(ctx, func(txCtx context.Context) error {
		s := &entities.Student{ComputingID: "a", Name: "A", Team: "T1"}
		if err := students.Upsert(txCtx, s); err != nil {
			return err
		}
		team := &entities.Team{ID: "T1", Name: "T1"}
		team.UpsertMember(s.Member())
		return teams.Upsert(txCtx, team)
	})
	require.NoError(t, err)

	_, err = students.GetByID(ctx, "a")
	require.NoError(t, err)
	_, err = teams.GetByID(ctx, "T1")
	require.NoError(t, err)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	createStudentTable(t, db)
	students := NewStudentRepository(db, testLimits)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := uow.Do(ctx, func(txCtx context.Context) error {
		require.NoError(t, students.Upsert(txCtx, &entities.Student{ComputingID: "a", Name: "A"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = students.GetByID(ctx, "a")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUnitOfWork_NestedDoJoinsOuterTransaction(t *testing.T) {
	db := newTestDB(t)
	createStudentTable(t, db)
	students := NewStudentRepository(db, testLimits)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	boom := errors.New("outer failed")
	err := uow.Do(ctx, func(txCtx context.Context) error {
		inner := uow.Do(txCtx, func(innerCtx context.Context) error {
			return students.Upsert(innerCtx, &entities.Student{ComputingID: "a", Name: "A"})
		})
		require.NoError(t, inner)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = students.GetByID(ctx, "a")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestMapStoreError(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, mapStoreError(ctx, nil))
	require.ErrorIs(t, mapStoreError(ctx, errors.New("x")), domainerrors.ErrStoreFailure)
	require.ErrorIs(t, mapStoreError(ctx, context.DeadlineExceeded), domainerrors.ErrStoreTimeout)

	require.Equal(t, `50\%\_off%`, containsPattern(" 50%_OFF ", true))
	require.Equal(t, `%a\\b%`, containsPattern(`a\b`, false))
}
