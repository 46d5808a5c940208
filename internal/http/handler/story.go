package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storyapi/internal/http/middleware"
	"storyapi/internal/service"
)

// storyFailure maps a StoryService error to a response. Validation and not-found
// errors are the client's; anything else is a store failure answered with
// storeStatus and a generic message, while the cause is logged.
func storyFailure(c *fiber.Ctx, log *zap.Logger, err error, storeStatus int, storeMsg string) error {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", vErr.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Story not found")
	}

	log.Error("story operation failed",
		zap.String("request_id", middleware.RequestIDFromCtx(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	code := "STORE_ERROR"
	if storeStatus >= fiber.StatusInternalServerError {
		code = "INTERNAL_ERROR"
	}
	return writeError(c, storeStatus, code, storeMsg)
}

// ListStories searches stories.
//
// @Summary  List or search stories
// @Tags     stories
// @Produce  json
// @Param    search   query string false "case-insensitive substring of title or writers"
// @Param    category query string false "exact category"
// @Param    status   query string false "exact status"
// @Success  200 {array}  model.Story
// @Failure  500 {object} errorPayload
// @Router   /api/stories [get]
func ListStories(svc service.StoryService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), service.ListQuery{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			Status:   c.Query("status"),
		})
		if err != nil {
			return storyFailure(c, log, err, fiber.StatusInternalServerError, "Internal Server Error")
		}
		return c.JSON(items)
	}
}

// GetStory returns one story.
//
// @Summary  Get a story
// @Tags     stories
// @Produce  json
// @Param    id path string true "story id"
// @Success  200 {object} model.Story
// @Failure  404 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /api/stories/{id} [get]
func GetStory(svc service.StoryService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		story, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return storyFailure(c, log, err, fiber.StatusInternalServerError, "Failed to fetch story")
		}
		return c.JSON(story)
	}
}

// CreateStory stores a new story.
//
// @Summary  Create a story
// @Tags     stories
// @Accept   json
// @Produce  json
// @Param    story body     service.StoryInput true "story"
// @Success  201   {object} model.Story
// @Failure  400   {object} errorPayload
// @Router   /api/stories [post]
func CreateStory(svc service.StoryService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.StoryInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid story payload")
		}
		story, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return storyFailure(c, log, err, fiber.StatusBadRequest, "Failed to create story")
		}
		return c.Status(fiber.StatusCreated).JSON(story)
	}
}

// UpdateStory replaces a story, chapters included.
//
// @Summary  Replace a story
// @Tags     stories
// @Accept   json
// @Produce  json
// @Param    id    path     string             true "story id"
// @Param    story body     service.StoryInput true "story"
// @Success  200   {object} model.Story
// @Failure  400   {object} errorPayload
// @Failure  404   {object} errorPayload
// @Router   /api/stories/{id} [put]
func UpdateStory(svc service.StoryService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.StoryInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid story payload")
		}
		story, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return storyFailure(c, log, err, fiber.StatusBadRequest, "Failed to update story")
		}
		return c.JSON(story)
	}
}

// DeleteStory removes a story.
//
// @Summary  Delete a story
// @Tags     stories
// @Produce  json
// @Param    id path string true "story id"
// @Success  200 {object} map[string]string
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/stories/{id} [delete]
func DeleteStory(svc service.StoryService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return storyFailure(c, log, err, fiber.StatusBadRequest, "Failed to delete story")
		}
		return c.JSON(fiber.Map{"message": "Story deleted"})
	}
}

// AppendChapter adds a chapter to the end of a story.
//
// @Summary  Append a chapter
// @Tags     stories
// @Accept   json
// @Produce  json
// @Param    id      path     string               true "story id"
// @Param    chapter body     service.ChapterInput true "chapter"
// @Success  200     {object} model.Story
// @Failure  400     {object} errorPayload
// @Failure  404     {object} errorPayload
// @Router   /api/stories/{id}/chapters [post]
func AppendChapter(svc service.StoryService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ChapterInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid chapter payload")
		}
		story, err := svc.AppendChapter(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return storyFailure(c, log, err, fiber.StatusBadRequest, "Failed to add chapter")
		}
		return c.JSON(story)
	}
}
