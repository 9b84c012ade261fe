package database

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"detran-quiz/internal/config"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFS embed.FS

// oracleObjectExists is ORA-00955: name is already used by an existing object.
const oracleObjectExists = "ORA-00955"

// RunMigrations brings the schema of db up to date for the given driver.
func RunMigrations(db *sqlx.DB, driver string, log *zap.Logger) error {
	switch driver {
	case config.DriverOracle:
		return runOracleMigrations(db, log)
	case config.DriverPostgres, config.DriverSQLite:
		m, err := newMigrator(db, driver)
		if err != nil {
			return err
		}
		// m.Close would also close db, which belongs to the caller.
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not apply migrations: %w", err)
		}
		version, dirty, _ := m.Version()
		log.Info("Migrations completed successfully", zap.String("driver", driver), zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}

// RollbackMigrations reverts the last applied migration. Oracle has no down path.
func RollbackMigrations(db *sqlx.DB, driver string, log *zap.Logger) error {
	if driver == config.DriverOracle {
		return errors.New("rollback is not supported for oracle")
	}
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("could not roll back migration: %w", err)
	}
	log.Info("Rolled back one migration", zap.String("driver", driver))
	return nil
}

func newMigrator(db *sqlx.DB, driver string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, path.Join("migrations", driver))
	if err != nil {
		return nil, fmt.Errorf("could not open migration source: %w", err)
	}

	var target migratedb.Driver
	switch driver {
	case config.DriverPostgres:
		target, err = pgxmigrate.WithInstance(db.DB, &pgxmigrate.Config{})
	case config.DriverSQLite:
		target, err = sqlitemigrate.WithInstance(db.DB, &sqlitemigrate.Config{})
	default:
		err = fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	return m, nil
}

// runOracleMigrations executes every *.up.sql file in name order, one statement at a time.
// Objects that already exist are skipped so the run can be repeated.
func runOracleMigrations(db *sqlx.DB, log *zap.Logger) error {
	dir := path.Join("migrations", config.DriverOracle)
	files, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}

	var names []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".up.sql") {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(migrationFS, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}

		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.Exec(stmt); err != nil {
				if strings.Contains(err.Error(), oracleObjectExists) {
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		log.Info("Executed migration", zap.String("file", name))
	}

	log.Info("Migrations completed successfully", zap.String("driver", config.DriverOracle))
	return nil
}

// SplitStatements drops '--' comment lines, then splits the script on ';' and drops blank statements.
func SplitStatements(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
