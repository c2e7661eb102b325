package handler

import (
	"pdf-study-agent/internal/middleware"
	"pdf-study-agent/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the study API on app.
func RegisterRoutes(app *fiber.App, sessions *SessionHandler, health *HealthHandler, tokens service.TokenService) {
	app.Get("/healthz", health.Check)

	api := app.Group("/api")
	api.Post("/sessions", sessions.CreateSession)

	session := api.Group("/session", middleware.RequireSession(tokens))
	session.Get("/", sessions.GetSession)
	session.Delete("/", sessions.EndSession)
	session.Post("/document", sessions.UploadDocument)
	session.Post("/summary", sessions.RegenerateSummary)
	session.Post("/quiz", sessions.GenerateQuiz)
	session.Post("/answers", sessions.SubmitAnswers)
	session.Get("/results", sessions.GetResults)
	session.Post("/reset", sessions.ResetSession)
}
