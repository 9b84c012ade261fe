package main

import (
	"fmt"
	"os"

	"detran-quiz/internal/config"
	"detran-quiz/internal/database"
	"detran-quiz/internal/logger"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	fs.String("db.driver", config.DriverPostgres, "database dialect: postgres, sqlite3 or oracle")
	fs.String("db.dsn", "", "connection string; overrides the discrete db.* settings")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: migrate [flags] [up|down]\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	direction := "up"
	if fs.NArg() > 0 {
		direction = fs.Arg(0)
	}
	if direction != "up" && direction != "down" {
		fs.Usage()
		os.Exit(2)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		fmt.Printf("Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if direction == "down" {
		err = database.RollbackMigrations(db, cfg.DB.Driver, log)
	} else {
		err = database.RunMigrations(db, cfg.DB.Driver, log)
	}
	if err != nil {
		log.Fatal("Migration failed", zap.String("direction", direction), zap.Error(err))
	}
}
