package logger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestInitAndContextLogging(t *testing.T) {
	Init("development")
	if GetLogger() == nil {
		t.Fatal("expected logger initialized")
	}

	ctx := ContextWithRequestID(context.Background(), "req-1")
	l := WithContext(ctx)
	if l == nil {
		t.Fatal("expected contextual logger")
	}

	Info(ctx, "info", TeamID("T1"), ComputingID("abc1de"), SprintID("s1"))
	Debug(ctx, "debug")
	Warn(ctx, "warn")
	Error(ctx, "error")
	LogRequest(ctx, "GET", "/health", 200, 10*time.Millisecond, "127.0.0.1")
}

func TestWithContextNil(t *testing.T) {
	Init("development")
	//nolint:staticcheck
	if WithContext(nil) == nil {
		t.Fatal("expected base logger for nil context")
	}
}

func TestGetLogger_NopBeforeInit(t *testing.T) {
	prev := log
	log = nil
	t.Cleanup(func() { log = prev })

	assert.NotNil(t, GetLogger())
	Info(context.Background(), "dropped")
}

func TestInit_ProductionAndSetLevel(t *testing.T) {
	log = nil
	once = sync.Once{}

	Init("production")
	if GetLogger() == nil {
		t.Fatal("expected production logger initialized")
	}

	SetLevel(zapcore.WarnLevel)
	assert.Equal(t, zapcore.WarnLevel, atom.Level())

	if WithContext(context.Background()) == nil {
		t.Fatal("expected logger without contextual fields")
	}
}

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, "team_id", TeamID("T1").Key)
	assert.Equal(t, "computing_id", ComputingID("x").Key)
	assert.Equal(t, "sprint_id", SprintID("s").Key)
}
