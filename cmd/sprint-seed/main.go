package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"sprint-review.backend/internal/config"
	"sprint-review.backend/internal/domain/entities"
	"sprint-review.backend/internal/infrastructure/datasources"
	"sprint-review.backend/internal/infrastructure/repositories"
)

var openSeedDB = datasources.NewConnection

var openSeedSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

type sprintUpserter interface {
	Upsert(ctx context.Context, sprint *entities.Sprint) error
}

type sprintSeedDeps struct {
	loadEnv  func() error
	loadCfg  func() *config.Config
	prepare  func(cfg *config.Config) (sprintUpserter, io.Closer, error)
	readFile func(name string) ([]byte, error)
	out      io.Writer
}

// sprintFile is the on-disk seed format:
//
//	sprints:
//	  - id: sprint-1
//	    name: Sprint 1
//	    sprintDueDate: 2025-02-07T23:59:00Z
//	    reviewDueDate: 2025-02-10T23:59:00Z
type sprintFile struct {
	Sprints []entities.Sprint `yaml:"sprints"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultSprintSeedDeps() sprintSeedDeps {
	return sprintSeedDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (sprintUpserter, io.Closer, error) {
			db, err := openSeedDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			if err := datasources.Migrate(db); err != nil {
				return nil, nil, fmt.Errorf("failed to migrate db: %w", err)
			}
			sqlDB, err := openSeedSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			return repositories.NewSprintRepository(db), sqlDB, nil
		},
		readFile: os.ReadFile,
		out:      os.Stdout,
	}
}

func parseSprintFile(raw []byte) ([]entities.Sprint, error) {
	var f sprintFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("invalid sprint file: %w", err)
	}
	if len(f.Sprints) == 0 {
		return nil, fmt.Errorf("sprint file has no sprints")
	}

	seen := make(map[string]bool, len(f.Sprints))
	for i := range f.Sprints {
		s := &f.Sprints[i]
		s.ID = strings.TrimSpace(s.ID)
		s.Name = strings.TrimSpace(s.Name)
		switch {
		case s.ID == "":
			return nil, fmt.Errorf("sprint %d: id is required", i+1)
		case strings.Contains(s.ID, "/"):
			return nil, fmt.Errorf("sprint %s: id must not contain \"/\"", s.ID)
		case seen[s.ID]:
			return nil, fmt.Errorf("sprint %s: duplicate id", s.ID)
		case s.SprintDueDate.IsZero() || s.ReviewDueDate.IsZero():
			return nil, fmt.Errorf("sprint %s: sprintDueDate and reviewDueDate are required", s.ID)
		case !s.ReviewDueDate.After(s.SprintDueDate):
			return nil, fmt.Errorf("sprint %s: reviewDueDate must be after sprintDueDate", s.ID)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		seen[s.ID] = true
	}
	return f.Sprints, nil
}

func runSprintSeed(args []string, deps sprintSeedDeps) error {
	def := defaultSprintSeedDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.readFile == nil {
		deps.readFile = def.readFile
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("sprint-seed", flag.ContinueOnError)
	fileFlag := fs.String("file", "", "path to the sprint YAML file (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fileFlag == "" {
		return fmt.Errorf("--file is required")
	}

	raw, err := deps.readFile(*fileFlag)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *fileFlag, err)
	}
	sprints, err := parseSprintFile(raw)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	repo, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	for i := range sprints {
		if err := repo.Upsert(ctx, &sprints[i]); err != nil {
			return fmt.Errorf("failed to upsert sprint %s: %w", sprints[i].ID, err)
		}
		_, _ = fmt.Fprintf(deps.out, "upserted sprint=%s review_window=%s..%s\n",
			sprints[i].ID, sprints[i].SprintDueDate.Format("2006-01-02T15:04Z07:00"), sprints[i].ReviewDueDate.Format("2006-01-02T15:04Z07:00"))
	}
	_, _ = fmt.Fprintf(deps.out, "Seeded %d sprints\n", len(sprints))
	return nil
}

func main() {
	if err := runSprintSeed(os.Args[1:], defaultSprintSeedDeps()); err != nil {
		log.Fatal(err)
	}
}
