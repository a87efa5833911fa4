package logsvc

import (
	"fmt"
	"net/http"
	"os"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/schoolcrm/core"
)

// ZapLogger is the structured core.Logger.
// expected args: error, map[string]interface{} (extras), *http.Request
type ZapLogger struct {
	z *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a named logger from conf. Format "json" is meant for production,
// anything else writes colored console lines.
func NewZapLogger(conf core.LogConfig, name string) (*ZapLogger, error) {
	level, err := zapcore.ParseLevel(core.CleanString(conf.Level, true))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", conf.Level)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	var encoder zapcore.Encoder
	if conf.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	zc := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	z := zap.New(zc, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return NewZapLoggerFrom(z.Named(name)), nil
}

func NewZapLoggerFrom(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Sync() error {
	return l.z.Sync()
}

func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch a := arg.(type) {
		case nil:
		case error:
			flds = append(flds, zap.Error(a))
		case map[string]interface{}:
			keys := make([]string, 0, len(a))
			for k := range a {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				flds = append(flds, zap.Any(k, a[k]))
			}
		case *http.Request:
			flds = append(flds, zap.String("method", a.Method), zap.String("path", a.URL.Path))
		default:
			flds = append(flds, zap.Any(fmt.Sprintf("arg%d", i), a))
		}
	}
	return flds
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) {
	l.z.Debug(msg, fields(args)...)
}

func (l *ZapLogger) Info(msg string, args ...interface{}) {
	l.z.Info(msg, fields(args)...)
}

func (l *ZapLogger) Warn(msg string, args ...interface{}) {
	l.z.Warn(msg, fields(args)...)
}

func (l *ZapLogger) Error(msg string, args ...interface{}) {
	l.z.Error(msg, fields(args)...)
}

func (l *ZapLogger) Fatal(msg string, args ...interface{}) {
	l.z.Fatal(msg, fields(args)...)
}
