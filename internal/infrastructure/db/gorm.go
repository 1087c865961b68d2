package db

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Option func(*gorm.Config)

// WithLogger routes GORM's statement log through zap at the given level
// (silent, error, warn, info).
func WithLogger(l *zap.Logger, level string) Option {
	return func(c *gorm.Config) {
		c.Logger = logger.New(zap.NewStdLog(l), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLevel(level),
			IgnoreRecordNotFoundError: true,
		})
	}
}

func gormLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

func OpenGorm(driver, dsn string, opts ...Option) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch driver {
	case DriverMySQL:
		dial = mysql.Open(dsn)
	case DriverSQLite:
		dial = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	return OpenGormWithDialector(dial, opts...)
}

func OpenGormWithDialector(dial gorm.Dialector, opts ...Option) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Warn),
		DisableAutomaticPing: true,
	}
	for _, o := range opts {
		o(cfg)
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
