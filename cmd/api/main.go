// @title Detran Quiz API
// @version 1.0
// @description Questions, topics and per-user progress for driving-license exam practice.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8000
// @BasePath /
// @schemes http
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "detran-quiz/cmd/api/docs"
	"detran-quiz/internal/adapter"
	"detran-quiz/internal/cache"
	"detran-quiz/internal/config"
	"detran-quiz/internal/database"
	"detran-quiz/internal/domain"
	"detran-quiz/internal/handler"
	"detran-quiz/internal/logger"
	"detran-quiz/internal/metrics"
	"detran-quiz/internal/repository"
	"detran-quiz/internal/service"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet("api", pflag.ExitOnError)
	fs.Int("server.port", 8000, "HTTP listen port")
	fs.String("db.driver", config.DriverPostgres, "database dialect: postgres, sqlite3 or oracle")
	fs.String("db.dsn", "", "connection string; overrides the discrete db.* settings")
	fs.String("redis.address", "", "Redis address for the catalog cache; empty disables caching")
	fs.Bool("migrate", false, "apply pending migrations on startup")
	_ = fs.Parse(os.Args[1:])

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		fmt.Printf("Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	metrics.Init()

	db, err := database.Open(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if v.GetBool("migrate") {
		if err := database.RunMigrations(db, cfg.DB.Driver, appLogger); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	} else {
		appLogger.Warn("Redis cache is not configured. Running without cache.")
	}

	topicRepository := service.NewCachedTopicRepository(
		repository.NewTopicDatabaseAdapter(db),
		cacheAdapter,
		cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Catalog, time.Hour),
	)
	quizService := service.NewQuizService(
		topicRepository,
		repository.NewQuestionDatabaseAdapter(db),
		repository.NewProgressDatabaseAdapter(db),
	)

	app := handler.NewApp(cfg.Server)
	handler.RegisterRoutes(app, handler.NewQuizHandler(quizService), handler.NewHealthHandler(db, cacheAdapter))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Env), zap.String("db_driver", cfg.DB.Driver))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
