package logsvc

import (
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/schoolcrm/core"
)

func TestZapLogger_Fields(t *testing.T) {
	zc, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLoggerFrom(zap.New(zc))

	req := httptest.NewRequest("PUT", "/v1/registers/grading/g1/term1:math", nil)
	logger.Error("commit failed", errors.New("boom"), map[string]interface{}{"kind": "persistence", "context": "grading/g1"}, req)
	logger.Debug("loaded")

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "commit failed", entry.Message)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)

	ctx := entry.ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "persistence", ctx["kind"])
	assert.Equal(t, "grading/g1", ctx["context"])
	assert.Equal(t, "PUT", ctx["method"])
	assert.Equal(t, "/v1/registers/grading/g1/term1:math", ctx["path"])
}

func TestNewZapLogger(t *testing.T) {
	tests := []struct {
		name    string
		conf    core.LogConfig
		wantErr bool
	}{
		{name: "console", conf: core.LogConfig{Level: "debug", Format: "console"}},
		{name: "json", conf: core.LogConfig{Level: "WARN", Format: "json"}},
		{name: "bad level", conf: core.LogConfig{Level: "loud"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewZapLogger(tt.conf, "test")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewZapLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

type recordingLogger struct {
	core.Logger
	msgs []string
}

func (l *recordingLogger) Warn(msg string, _ ...interface{})  { l.msgs = append(l.msgs, "warn:"+msg) }
func (l *recordingLogger) Error(msg string, _ ...interface{}) { l.msgs = append(l.msgs, "error:"+msg) }

func TestRollbarLogger_Forwards(t *testing.T) {
	base := &recordingLogger{Logger: core.NopLogger}
	logger := NewRollbarLogger(base, &core.Config{Env: "TEST", Build: "test"})
	logger.Enable(false)

	logger.Warn("orphans", map[string]interface{}{"orphans": 2})
	logger.Error("commit failed", errors.New("boom"), nil)
	logger.Info("ignored by base")

	assert.Equal(t, []string{"warn:orphans", "error:commit failed"}, base.msgs)
}

func TestNew(t *testing.T) {
	logger, err := New(&core.Config{Log: core.LogConfig{Level: "info"}}, "API")
	require.NoError(t, err)
	_, isZap := logger.(*ZapLogger)
	assert.True(t, isZap, "no token, no rollbar")

	logger, err = New(&core.Config{Debug: true, RollbarToken: "token", Log: core.LogConfig{Level: "info"}}, "API")
	require.NoError(t, err)
	_, isRollbar := logger.(*RollbarLogger)
	assert.True(t, isRollbar)
}
