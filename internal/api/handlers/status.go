package handlers

import (
	"github.com/amaumene/catalogr/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Counter counts catalog entries per content type
type Counter interface {
	Count(contentType models.ContentType) (int, error)
}

// SourceLister lists the sync sources that can be run
type SourceLister interface {
	Sources() []string
}

// StatusHandler handles status requests
type StatusHandler struct {
	catalog Counter
	sources SourceLister
	logger  *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(catalog Counter, sources SourceLister, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		catalog: catalog,
		sources: sources,
		logger:  logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	Movies  int      `json:"movies"`
	Shows   int      `json:"shows"`
	Total   int      `json:"total"`
	Sources []string `json:"sources"`
}

// Handle serves the status endpoint
func (h *StatusHandler) Handle(c *fiber.Ctx) error {
	movies, err := h.catalog.Count(models.ContentTypeMovie)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count movies")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	shows, err := h.catalog.Count(models.ContentTypeShow)
	if err != nil {
		h.logger.WithError(err).Error("Failed to count shows")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(StatusResponse{
		Movies:  movies,
		Shows:   shows,
		Total:   movies + shows,
		Sources: h.sources.Sources(),
	})
}
