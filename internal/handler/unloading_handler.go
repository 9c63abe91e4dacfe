package handler

import (
	"go-weighbridge-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UnloadingHandler struct {
	service service.UnloadingService
}

func NewUnloadingHandler(s service.UnloadingService) *UnloadingHandler {
	return &UnloadingHandler{service: s}
}

// Verify records accepted/rejected quantities for a trip at the unloading
// stage and returns the derived rejection rate and quality band.
// POST /api/v1/trips/:id/unloadings
func (h *UnloadingHandler) Verify(c *fiber.Ctx) error {
	tripID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	var req service.VerifyUnloadingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Verify(tripID, &req, getStaff(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Unloading verified", "data": result})
}

// ListByTrip returns all unloading verifications for a trip.
// GET /api/v1/trips/:id/unloadings
func (h *UnloadingHandler) ListByTrip(c *fiber.Ctx) error {
	tripID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	results, err := h.service.ListByTrip(tripID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(results)
}
