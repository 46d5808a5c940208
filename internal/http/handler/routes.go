package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storyapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db Pinger, storySvc service.StoryService, coverSvc service.CoverService, log *zap.Logger) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Backend running")
	})

	// Readiness checks the database; /healthz is a bare liveness probe.
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Uploaded covers are served read-only.
	app.Get("/uploads/:filename", ServeCover(coverSvc, log))

	stories := app.Group("/api/stories")
	// Must precede the /:id routes.
	stories.Post("/upload/cover", UploadCover(coverSvc, log))

	stories.Get("/", ListStories(storySvc, log))
	stories.Post("/", CreateStory(storySvc, log))
	stories.Get("/:id", GetStory(storySvc, log))
	stories.Put("/:id", UpdateStory(storySvc, log))
	stories.Delete("/:id", DeleteStory(storySvc, log))
	stories.Post("/:id/chapters", AppendChapter(storySvc, log))
}
