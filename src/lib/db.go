package lib

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codebros/codebros-backend/src/config"
	"github.com/codebros/codebros-backend/src/log"
)

// OpenGorm opens the relational database selected by cfg.Driver (sqlite or postgres).
func OpenGorm(cfg config.StoreConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = "./codebros.db"
		}
		dialector = sqlite.Open(path)
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.PostgresDSN,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("driver %q is not a gorm driver", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// sqlite serializes writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	log.WithComponent("db").Info().Str("driver", cfg.Driver).Msg("Connected to database")
	return db, nil
}

// gormWriter sends gorm's printf-style output to zerolog. gorm only prints at Warn and above here.
type gormWriter struct {
	*zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.Warn().Msgf(format, args...)
}

func newGormLogger() logger.Interface {
	return logger.New(gormWriter{log.WithComponent("gorm")}, logger.Config{
		SlowThreshold:             1500 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
