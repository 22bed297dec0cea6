package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger sends gorm's output through zap. Statements run inside a
// request are logged with that request's context fields.
type GormLogger struct {
	gormlogger.Config
	base *zap.Logger
}

// NewGormLogger creates a gorm logger. A zero slowThreshold disables slow
// query warnings; missing records are never logged as errors.
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{
		Config: gormlogger.Config{
			LogLevel:                  level,
			SlowThreshold:             slowThreshold,
			IgnoreRecordNotFoundError: true,
		},
		base: base.Named("gorm"),
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Info {
		l.zap(ctx).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Warn {
		l.zap(ctx).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Error {
		l.zap(ctx).Sugar().Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !(l.IgnoreRecordNotFoundError && errors.Is(err, gormlogger.ErrRecordNotFound))

	var (
		level zapcore.Level
		msg   string
		extra zap.Field
	)
	switch {
	case failed && l.LogLevel >= gormlogger.Error:
		level, msg, extra = zapcore.ErrorLevel, "SQL error", zap.Error(err)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormlogger.Warn:
		level, msg, extra = zapcore.WarnLevel, "Slow SQL", zap.Duration("threshold", l.SlowThreshold)
	case l.LogLevel >= gormlogger.Info:
		level, msg, extra = zapcore.DebugLevel, "SQL", zap.Skip()
	default:
		return
	}

	if ce := l.zap(ctx).Check(level, msg); ce != nil {
		sql, rows := fc()
		ce.Write(zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql), extra)
	}
}

// zap returns base decorated with the request fields carried by ctx
func (l *GormLogger) zap(ctx context.Context) *zap.Logger {
	return (&ContextLogger{ctx: ctx, logger: l.base}).Zap()
}

// MapGormLogLevel maps the application log level onto gorm's levels
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
