package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"text/tabwriter"

	"detran-quiz/internal/classify"
	"detran-quiz/internal/config"
	"detran-quiz/internal/database"
	"detran-quiz/internal/logger"
	"detran-quiz/internal/metrics"
	"detran-quiz/internal/repository"
	"detran-quiz/internal/service"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet("import", pflag.ExitOnError)
	fs.String("db.driver", config.DriverPostgres, "database dialect: postgres, sqlite3 or oracle")
	fs.String("db.dsn", "", "connection string; overrides the discrete db.* settings")
	fs.Bool("import.dedup", true, "skip questions whose content hash is already stored")
	fs.Int("import.concurrency", 4, "files extracted in parallel")
	fs.String("import.dom_marker", "document.", "script text from this marker onward is ignored")
	fs.String("dir", "", "import every *.html file in this directory")
	fs.Bool("seed", true, "seed topics and subtopics before importing")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: import [flags] [file.html ...]\n\n")
		fs.PrintDefaults()
	}
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
	metrics.Init()

	paths, err := collectPaths(v.GetString("dir"), fs.Args())
	if err != nil {
		log.Fatal("Failed to list fixture files", zap.Error(err))
	}
	if len(paths) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.DB.Driver, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	classifier := classify.Default()
	if v.GetBool("seed") {
		seeder := service.NewSeedService(
			repository.NewTopicDatabaseAdapter(db),
			repository.NewTransactionManagerAdapter(db),
			classifier,
			log,
		)
		if _, err := seeder.Seed(ctx); err != nil {
			log.Fatal("Seeding failed", zap.Error(err))
		}
	}

	importer := service.NewImportService(repository.NewQuestionDatabaseAdapter(db), classifier, cfg.Import, log)
	report, err := importer.Import(ctx, paths)
	if report != nil {
		printReport(report)
	}
	if err != nil {
		log.Error("Import interrupted", zap.Error(err))
		os.Exit(1)
	}
}

// collectPaths returns explicit files followed by the sorted *.html files of dir.
func collectPaths(dir string, files []string) ([]string, error) {
	paths := append([]string(nil), files...)
	if dir == "" {
		return paths, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return append(paths, matches...), nil
}

func printReport(r *service.ImportReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSTRATEGY\tFOUND\tACCEPTED\tINSERTED\tDUPLICATES\tFAILED\tERROR")
	for _, f := range r.Files {
		errText := ""
		if f.Err != nil {
			errText = f.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			filepath.Base(f.Path), f.Strategy, f.Found, f.Accepted, f.Inserted, f.Duplicates, f.Failed, errText)
	}
	fmt.Fprintf(w, "TOTAL\t\t%d\t%d\t%d\t%d\t%d\t\n", r.Found, r.Accepted, r.Inserted, r.Duplicates, r.Failed)
	_ = w.Flush()
}
