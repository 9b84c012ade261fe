package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"detran-quiz/internal/client"
	"detran-quiz/internal/config"
	"detran-quiz/internal/logger"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	fs := pflag.NewFlagSet("quiz", pflag.ExitOnError)
	fs.String("client.base_url", "http://localhost:8000", "quiz API base URL")
	fs.String("client.user_id", "aluno-teste-01", "learner id sent with every request")
	fs.Duration("client.timeout", 0, "per-request timeout (0 uses the configured default)")
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

	// Logs go to a file only, so they do not interleave with the quiz on stdout.
	logCfg := cfg.Logger
	logCfg.Level = "error"
	logCfg.FileOnly = true
	if logCfg.File != "" {
		if err := logger.Initialize(logCfg); err != nil {
			fmt.Printf("Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	t := &terminal{
		api:    client.New(cfg.Client),
		userID: cfg.Client.UserID,
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
	}
	t.run(context.Background())
}
