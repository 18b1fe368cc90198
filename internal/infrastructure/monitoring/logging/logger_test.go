package logging

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// Helper to create a logger that writes to a buffer for verification
func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	core := zapcore.NewCore(encoder, buf, zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelInfo, Format: "json", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelDebug, Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_EmptyOutputPaths(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewLeveledLogger_SetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, lvl, err := NewLeveledLogger(LogConfig{Level: LevelWarn, Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)
	assert.Equal(t, "warn", lvl.String())

	child := l.Named("child")
	child.Info("hidden")
	lvl.Set(LevelDebug)
	child.Debug("shown")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
	assert.Equal(t, "debug", lvl.String())
}

func TestNewDevelopmentLogger_NotNil(t *testing.T) {
	assert.NotNil(t, NewDevelopmentLogger())
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("msg")
		l.Info("msg")
		l.Warn("msg")
		l.Error("msg")
		l.Fatal("msg")
	})
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
	assert.Equal(t, l, l.WithContext(context.Background()))
	assert.Equal(t, l, l.WithError(errors.New("err")))
	assert.NoError(t, l.Sync())
}

func TestZapLogger_LevelsWriteLog(t *testing.T) {
	cases := []struct {
		level string
		log   func(Logger, string)
	}{
		{"debug", func(l Logger, m string) { l.Debug(m) }},
		{"info", func(l Logger, m string) { l.Info(m) }},
		{"warn", func(l Logger, m string) { l.Warn(m) }},
		{"error", func(l Logger, m string) { l.Error(m) }},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			l, buf := newTestLogger(t)
			tc.log(l, tc.level+" msg")
			assert.Contains(t, buf.String(), tc.level+" msg")
			assert.Contains(t, buf.String(), "\"level\":\""+tc.level+"\"")
		})
	}
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	l, buf := newTestLogger(t)
	l.With(String(FieldPatentID, "p-1"), Int64(FieldVersion, 3)).Info("msg")
	assert.Contains(t, buf.String(), "\"patent_id\":\"p-1\"")
	assert.Contains(t, buf.String(), "\"version\":3")
}

func TestZapLogger_WithContext_ExtractsRequestID(t *testing.T) {
	l, buf := newTestLogger(t)
	ctx := WithRequestID(context.Background(), "req-123")
	l.WithContext(ctx).Info("msg")
	assert.Contains(t, buf.String(), "\"request_id\":\"req-123\"")
}

func TestZapLogger_WithContext_NoRequestID(t *testing.T) {
	l, buf := newTestLogger(t)
	l.WithContext(context.Background()).Info("msg")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestZapLogger_WithError_AppError(t *testing.T) {
	l, buf := newTestLogger(t)
	appErr := apperrors.New(apperrors.ErrCodeStageNotFound, "stage missing")
	l.WithError(appErr).Error("msg")
	assert.Contains(t, buf.String(), "\"error_code\":\"LC_002\"")
	assert.Contains(t, buf.String(), "\"error\":\"[LC_002] stage missing\"")
}

func TestZapLogger_WithError_NilError(t *testing.T) {
	l, buf := newTestLogger(t)
	l.WithError(nil).Info("msg")
	assert.NotContains(t, buf.String(), "\"error\"")
}

func TestNewLoggerFromCore_Observer(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core).Named("lifecycle")

	l.Debug("hidden")
	l.Info("stage completed", String(FieldStageID, "S2"), Duration("took", time.Millisecond))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "stage completed", entry.Message)
	assert.Equal(t, "lifecycle", entry.LoggerName)
	assert.Equal(t, "S2", entry.ContextMap()[FieldStageID])
}

func TestSetDefault_UpdatesGlobal(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewDevelopmentLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default(), "nil must be ignored")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"Warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogOperationDuration_FastOperation(t *testing.T) {
	l, buf := newTestLogger(t)
	LogOperationDuration(l, "apply_stage_update", time.Now())
	assert.Contains(t, buf.String(), "operation completed")
	assert.Contains(t, buf.String(), "\"level\":\"info\"")
	assert.Contains(t, buf.String(), "duration_ms")
}

func TestLogOperationDuration_SlowOperation(t *testing.T) {
	l, buf := newTestLogger(t)
	LogOperationDuration(l, "list", time.Now().Add(-2*time.Second))
	assert.Contains(t, buf.String(), "slow operation")
	assert.Contains(t, buf.String(), "\"level\":\"warn\"")
}

//Personal.AI order the ending
