package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/ports"
)

type StorageHandler struct {
	service ports.StorageService
	log     *zap.Logger
}

func NewStorageHandler(service ports.StorageService, log *zap.Logger) *StorageHandler {
	return &StorageHandler{
		service: service,
		log:     log,
	}
}

type PresignRequest struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Presign hands the browser a direct upload URL; file bytes never pass
// through the API.
func (h *StorageHandler) Presign(c *fiber.Ctx) error {
	var req PresignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	location, err := h.service.RequestUploadLocation(c.Context(), req.FileName, req.MimeType, req.Size)
	if err != nil {
		return err
	}

	return c.JSON(location)
}
