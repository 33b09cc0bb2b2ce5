// Package logsvc implements core.Logger on top of zap, optionally reporting to rollbar.
package logsvc

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

type Logger struct {
	zl      *zap.Logger
	rollbar bool
}

var _ core.Logger = (*Logger)(nil)

type Options struct {
	// File overrides conf.Log.File; empty means conf.Log.File, then stderr.
	File string
	// Verbose forces the debug level.
	Verbose bool
}

// New builds the application logger: human readable console output in debug mode, JSON otherwise.
// Warnings and errors also go to rollbar when a token is configured outside of debug mode.
func New(conf *core.Config, opts Options) (*Logger, error) {
	var zc zap.Config
	if conf.Debug {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(conf.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log.level")
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = !opts.Verbose

	file := opts.File
	if file == "" {
		file = conf.Log.File
	}
	if file != "" {
		zc.OutputPaths = []string{file}
		zc.ErrorOutputPaths = []string{file}
	}

	zl, err := zc.Build(zap.Fields(zap.String("app", conf.AppName), zap.String("build", conf.Build)))
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}

	l := NewWithZap(zl)
	if conf.RollbarToken != "" && !conf.Debug {
		rollbar.SetToken(conf.RollbarToken)
		rollbar.SetEnvironment(conf.Env)
		rollbar.SetCodeVersion(conf.Build)
		rollbar.SetStackTracer(rollbarerrors.StackTracer)
		rollbar.SetEnabled(true)
		l.rollbar = true
	}
	return l, nil
}

// NewWithZap wraps an existing zap logger; rollbar stays off.
func NewWithZap(zl *zap.Logger) *Logger {
	return &Logger{zl: zl.WithOptions(zap.AddCallerSkip(1))}
}

// Zap exposes the underlying logger.
func (l *Logger) Zap() *zap.Logger { return l.zl }

// Sync flushes buffered entries and waits for pending rollbar reports.
func (l *Logger) Sync() error {
	if l.rollbar {
		rollbar.Wait()
	}
	return l.zl.Sync()
}

// expected fmt: msg | error, map[string]interface{}, student.Student
func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	var errCount int
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
		case error:
			if errCount == 0 {
				flds = append(flds, zap.Error(v))
			} else {
				flds = append(flds, zap.NamedError(fmt.Sprintf("error%d", errCount), v))
			}
			errCount++
		case map[string]interface{}:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				flds = append(flds, zap.Any(k, v[k]))
			}
		case student.Student:
			flds = append(flds, zap.String("student_id", v.ID))
		default:
			flds = append(flds, zap.Any(fmt.Sprintf("arg%d", i), v))
		}
	}
	return flds
}

// rollbarArgs sets the acting student as rollbar person and drops it from args.
func rollbarArgs(msg string, args []interface{}) []interface{} {
	var stdSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		if std, ok := arg.(student.Student); ok {
			if !stdSet { // only set one Student
				rollbar.SetPerson(std.ID, std.Name, "")
				stdSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !stdSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.zl.Debug(msg, fields(args)...)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.zl.Info(msg, fields(args)...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.rollbar {
		rollbar.Warning(rollbarArgs(msg, args)...)
	}
	l.zl.Warn(msg, fields(args)...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	if l.rollbar {
		rollbar.Error(rollbarArgs(msg, args)...)
	}
	l.zl.Error(msg, fields(args)...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	if l.rollbar {
		rollbar.Critical(rollbarArgs(msg, args)...)
		rollbar.Wait()
	}
	l.zl.Fatal(msg, fields(args)...)
}
