package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/temirov/spooler/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// InitDB opens (or creates) the SQLite file and auto-migrates the spool schema.
func InitDB(databasePath string, logger *slog.Logger) (*gorm.DB, error) {
	logger.Info("Initializing SQLite DB", "path", databasePath)

	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite failed: %w", err)
	}

	if err := database.AutoMigrate(model.AllModels()...); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return database, nil
}

// NewGormLogger adapts slog to gorm's logger.Interface.
func NewGormLogger(logger *slog.Logger) logger.Interface {
	return &slogGormLogger{logger: logger, level: gormLogLevelFor(logger)}
}

type slogGormLogger struct {
	logger *slog.Logger
	level  logger.LogLevel
}

var _ logger.Interface = (*slogGormLogger)(nil)

func gormLogLevelFor(slogger *slog.Logger) logger.LogLevel {
	ctx := context.Background()
	switch {
	case slogger.Enabled(ctx, slog.LevelDebug):
		return logger.Info
	case slogger.Enabled(ctx, slog.LevelWarn):
		return logger.Warn
	default:
		return logger.Error
	}
}

func (l *slogGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	copied := *l
	copied.level = level
	return &copied
}

func (l *slogGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		l.logger.ErrorContext(ctx, "gorm_query_failed", "error", err, "sql", sql, "rows", rows, "elapsed", elapsed)
	case elapsed > slowQueryThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.logger.WarnContext(ctx, "gorm_query_slow", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.level >= logger.Info:
		sql, rows := fc()
		l.logger.DebugContext(ctx, "gorm_query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
