package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/ports"
)

type CatalogHandler struct {
	service ports.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service ports.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

func (h *CatalogHandler) List(c *fiber.Ctx) error {
	services, err := h.service.ListServices(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(services)
}

func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	svc, err := h.service.GetService(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(svc)
}
