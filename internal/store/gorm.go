package store

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/firesafe/estimator/internal/config"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/ngrok/sqlmw"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	dbTypePostgres = "pgsql"

	// pgx wrapped with the metric interceptor
	instrumentedDriver = "pgx-firesafe"
)

var registerDriver sync.Once

// InitDB opens the database named by cfg. Postgres goes through the
// instrumented pgx driver, anything else is treated as a sqlite path.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	log := zap.S().Named("gorm")

	db, err := gorm.Open(dialector(cfg.Database), &gorm.Config{
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             cfg.Database.SlowQuery,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}),
		TranslateError: true,
	})
	if err != nil {
		log.Errorw("opening database", "type", cfg.Database.Type, "error", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	if cfg.Database.Type == dbTypePostgres {
		var version string
		if err := db.Raw("SELECT version()").Scan(&version).Error; err != nil {
			log.Errorw("querying server version", "error", err)
			return nil, err
		}
		log.Infow("connected to postgres", "host", cfg.Database.Hostname, "database", cfg.Database.Name, "version", version)
	}

	return db, nil
}

func dialector(cfg *config.DbConfig) gorm.Dialector {
	if cfg.Type != dbTypePostgres {
		return sqlite.Open(cfg.Name)
	}

	registerDriver.Do(func() {
		sql.Register(instrumentedDriver, sqlmw.Driver(stdlib.GetDefaultDriver(), &metricInterceptor{}))
	})
	return postgres.New(postgres.Config{DriverName: instrumentedDriver, DSN: postgresDSN(cfg)})
}

func postgresDSN(cfg *config.DbConfig) string {
	parts := []string{
		"host=" + cfg.Hostname,
		"port=" + cfg.Port,
		"user=" + cfg.User,
		"password=" + cfg.Password,
	}
	if cfg.Name != "" {
		parts = append(parts, "dbname="+cfg.Name)
	}
	return strings.Join(parts, " ")
}

// gormWriter sends gorm's slow query and error lines to zap.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	zap.S().Named("gorm").Warn(fmt.Sprintf(format, args...))
}
