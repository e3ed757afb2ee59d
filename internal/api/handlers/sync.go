package handlers

import (
	"errors"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Trigger starts a sync run in the background
type Trigger interface {
	Trigger(source string) error
}

// SyncHandler starts sync runs on request
type SyncHandler struct {
	trigger Trigger
	logger  *logrus.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(trigger Trigger, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		trigger: trigger,
		logger:  logger,
	}
}

// Handle serves POST /api/sync/:source. The run continues after the response.
func (h *SyncHandler) Handle(c *fiber.Ctx) error {
	source := c.Params("source")

	if err := h.trigger.Trigger(source); err != nil {
		if errors.Is(err, models.ErrUnknownSource) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).WithField("source", source).Error("Failed to trigger sync")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "accepted",
		"source": source,
	})
}
