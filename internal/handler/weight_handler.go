package handler

import (
	"go-weighbridge-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type WeightHandler struct {
	service service.WeightService
}

func NewWeightHandler(s service.WeightService) *WeightHandler {
	return &WeightHandler{service: s}
}

// Capture records a weighbridge reading for a trip.
// POST /api/v1/trips/:id/weights
func (h *WeightHandler) Capture(c *fiber.Ctx) error {
	tripID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	var req service.CaptureWeightRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	weight, err := h.service.Capture(tripID, &req, getStaff(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Weight captured", "data": weight})
}

// ListByTrip returns all weighments recorded for a trip.
// GET /api/v1/trips/:id/weights
func (h *WeightHandler) ListByTrip(c *fiber.Ctx) error {
	tripID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	weights, err := h.service.ListByTrip(tripID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(weights)
}
