package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"sprint-review.backend/internal/config"
	"sprint-review.backend/pkg/jwt"
)

type tokenGenDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	out     io.Writer
}

type tokenInput struct {
	uid       string
	studentID string
	email     string
	role      string
	ttl       time.Duration
}

func validateInputs(in *tokenInput) error {
	switch in.role {
	case jwt.RoleProfessor:
		if in.studentID != "" {
			return fmt.Errorf("--student-id is only valid for role %s", jwt.RoleStudent)
		}
	case jwt.RoleStudent:
		if in.studentID == "" {
			return fmt.Errorf("--student-id is required for role %s", jwt.RoleStudent)
		}
	default:
		return fmt.Errorf("invalid role: %s (allowed: %s, %s)", in.role, jwt.RoleProfessor, jwt.RoleStudent)
	}
	if in.ttl <= 0 {
		return fmt.Errorf("invalid ttl: %s (must be positive)", in.ttl)
	}
	return nil
}

func buildToken(secret string, in *tokenInput) (string, error) {
	if in.uid == "" {
		in.uid = uuid.NewString()
	}
	return jwt.NewJWTService(secret, in.ttl).GenerateAccessToken(in.uid, in.studentID, in.email, in.role)
}

func runTokenGen(args []string, deps tokenGenDeps) error {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	in := &tokenInput{}
	fs := flag.NewFlagSet("token-gen", flag.ContinueOnError)
	fs.StringVar(&in.uid, "uid", "", "account uid (random when empty)")
	fs.StringVar(&in.studentID, "student-id", "", "computing id the account is linked to (students only)")
	fs.StringVar(&in.email, "email", "", "account email")
	fs.StringVar(&in.role, "role", jwt.RoleProfessor, "role: professor or student")
	fs.DurationVar(&in.ttl, "ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validateInputs(in); err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()

	token, err := buildToken(cfg.JWT.Secret, in)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Generated access token")
	_, _ = fmt.Fprintf(deps.out, "uid=%s\n", in.uid)
	_, _ = fmt.Fprintf(deps.out, "role=%s\n", in.role)
	_, _ = fmt.Fprintf(deps.out, "TOKEN=%s\n", token)
	return nil
}

func main() {
	if err := runTokenGen(os.Args[1:], tokenGenDeps{}); err != nil {
		log.Fatal(err)
	}
}
