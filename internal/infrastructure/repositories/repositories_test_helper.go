package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	domainRepos "sprint-review.backend/internal/domain/repositories"
)

var testLimits = domainRepos.StoreLimits{MaxBatchOps: 10, MaxInFilter: 3}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createStudentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE students (
		computing_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		team TEXT,
		joined_at DATETIME,
		active BOOLEAN NOT NULL DEFAULT false,
		github_id TEXT,
		discord_id TEXT,
		preferred_pronouns TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createTeamTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		students TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createReviewTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE reviews (
		id TEXT PRIMARY KEY,
		reviewer_id TEXT NOT NULL,
		reviewed_teammate_id TEXT NOT NULL,
		sprint_id TEXT NOT NULL,
		review_completed BOOLEAN NOT NULL DEFAULT false,
		overall_evaluation_score TEXT,
		is_flagged BOOLEAN NOT NULL DEFAULT false,
		improvement_feedback TEXT,
		strength_feedback TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE UNIQUE INDEX idx_reviews_pair ON reviews (reviewer_id, reviewed_teammate_id, sprint_id);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		uid TEXT PRIMARY KEY,
		student_id TEXT,
		email TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'student',
		created_at DATETIME
	);`)
}

func createSprintTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE sprints (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sprint_due_date DATETIME NOT NULL,
		review_due_date DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
