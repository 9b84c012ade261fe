package database

import (
	"fmt"

	"detran-quiz/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
	_ "github.com/sijms/go-ora/v2"  // registers "oracle"
	"go.uber.org/zap"
)

// sqlDrivers maps db.driver values onto registered database/sql driver names.
var sqlDrivers = map[string]string{
	config.DriverPostgres: "pgx",
	config.DriverSQLite:   "sqlite3",
	config.DriverOracle:   "oracle",
}

func init() {
	// go-ora binds positional :N parameters; sqlx has no default entry for it.
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// SQLDriverName returns the database/sql driver registered for a db.driver value.
func SQLDriverName(driver string) (string, error) {
	name, ok := sqlDrivers[driver]
	if !ok {
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
	return name, nil
}

// Open connects to the configured store, applies pool settings and pings it.
func Open(cfg *config.Config, log *zap.Logger) (*sqlx.DB, error) {
	driverName, err := SQLDriverName(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DB.Driver, err)
	}

	if cfg.DB.Driver == config.DriverSQLite {
		// A single connection keeps :memory: databases and writers consistent.
		db.SetMaxOpenConns(1)
	} else {
		if cfg.DB.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		}
		if cfg.DB.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		}
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.DB.Driver, err)
	}

	log.Info("Connected to database", zap.String("driver", cfg.DB.Driver))
	return db, nil
}
