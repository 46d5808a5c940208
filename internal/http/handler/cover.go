package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storyapi/internal/http/middleware"
	"storyapi/internal/service"
)

// CoverFormField is the multipart field carrying the cover file.
const CoverFormField = "cover"

// UploadCover stores a cover image and returns where it is served.
//
// @Summary  Upload a cover image
// @Tags     covers
// @Accept   mpfd
// @Produce  json
// @Param    cover formData file true "cover image"
// @Success  200 {object} service.CoverUpload
// @Failure  400 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /api/stories/upload/cover [post]
func UploadCover(svc service.CoverService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile(CoverFormField)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "UPLOAD_ERROR", "No file uploaded")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "UPLOAD_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		up, err := svc.Upload(c.UserContext(), f, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
		if err != nil {
			log.Error("cover upload failed",
				zap.String("request_id", middleware.RequestIDFromCtx(c)),
				zap.String("filename", fh.Filename),
				zap.Error(err),
			)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(up)
	}
}

// ServeCover streams an uploaded cover read-only.
//
// @Summary  Fetch an uploaded cover
// @Tags     covers
// @Produce  octet-stream
// @Param    filename path string true "generated filename"
// @Success  200
// @Failure  404 {object} errorPayload
// @Router   /uploads/{filename} [get]
func ServeCover(svc service.CoverService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		obj, err := svc.Open(c.UserContext(), c.Params("filename"))
		if err != nil {
			if errors.Is(err, service.ErrCoverNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			log.Error("cover read failed",
				zap.String("request_id", middleware.RequestIDFromCtx(c)),
				zap.Error(err),
			)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Set(fiber.HeaderContentType, obj.ContentType)
		// fasthttp closes the body once it has been written.
		return c.SendStream(obj.Body, int(obj.Size))
	}
}
