package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/nearbuy/internal/middleware"
	"github.com/example/nearbuy/internal/storage"
)

const maxImageSize = 5 * 1024 * 1024

// UploadHandler accepts multipart image uploads into blob storage.
type UploadHandler struct {
	store *storage.ImageStore
}

// NewUploadHandler constructs UploadHandler. store may be nil when blob
// storage is not configured.
func NewUploadHandler(store *storage.ImageStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadImage stores the "image" form file and returns its public URL.
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if h.store == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "image storage not configured")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	if fileHeader.Size > maxImageSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "image exceeds 5MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to read image")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.store.Upload(c.Context(), userID.String(), fileHeader.Filename, contentType, file)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "url": url})
}
