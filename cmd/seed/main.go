package main

import (
	"context"
	"fmt"
	"os"

	"detran-quiz/internal/classify"
	"detran-quiz/internal/config"
	"detran-quiz/internal/database"
	"detran-quiz/internal/logger"
	"detran-quiz/internal/repository"
	"detran-quiz/internal/service"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet("seed", pflag.ExitOnError)
	fs.String("db.driver", config.DriverPostgres, "database dialect: postgres, sqlite3 or oracle")
	fs.String("db.dsn", "", "connection string; overrides the discrete db.* settings")
	fs.Bool("migrate", true, "apply pending migrations before seeding")
	_ = fs.Parse(os.Args[1:])

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

	if v.GetBool("migrate") {
		if err := database.RunMigrations(db, cfg.DB.Driver, log); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	seeder := service.NewSeedService(
		repository.NewTopicDatabaseAdapter(db),
		repository.NewTransactionManagerAdapter(db),
		classify.Default(),
		log,
	)
	if _, err := seeder.Seed(context.Background()); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
}
