package handler

import (
	"detran-quiz/internal/config"
	"detran-quiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp builds the Fiber app with the shared middleware chain and error handler.
func NewApp(cfg config.ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())
	return app
}

// RegisterRoutes mounts the quiz API, health, metrics and swagger endpoints.
func RegisterRoutes(app *fiber.App, quiz *QuizHandler, health *HealthHandler) {
	validate := middleware.NewValidationMiddleware()

	app.Get("/health", health.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/topics", quiz.ListTopics)
	app.Get("/topics/:topicId/subtopics", validate.ValidateTopicID(), quiz.ListSubtopics)
	app.Get("/questions", validate.ValidateQuestionQuery(), quiz.ListQuestions)
	app.Get("/stats", validate.ValidateQuestionQuery(), quiz.GetStats)
	app.Post("/submit", quiz.SubmitAnswer)
}
