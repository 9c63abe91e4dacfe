package handler

import (
	"go-weighbridge-ws/internal/model"
	"go-weighbridge-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TripHandler struct {
	service service.TripService
}

func NewTripHandler(s service.TripService) *TripHandler {
	return &TripHandler{service: s}
}

type createTripRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id"`
	DriverID  uuid.UUID `json:"driver_id"`
	POID      uuid.UUID `json:"po_id"`
}

// CreateTrip opens a trip at the entry gate.
// POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *fiber.Ctx) error {
	var req createTripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.VehicleID == uuid.Nil || req.DriverID == uuid.Nil || req.POID == uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "vehicle_id, driver_id and po_id are required"})
	}

	trip, err := h.service.CreateTrip(req.VehicleID, req.DriverID, req.POID, getStaff(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Trip created", "data": trip})
}

type advanceTripRequest struct {
	NextStage model.TripStage `json:"next_stage"`
	Remarks   string          `json:"remarks"`
}

// Advance moves the trip to the next stage in the fixed progression.
// POST /api/v1/trips/:id/advance
func (h *TripHandler) Advance(c *fiber.Ctx) error {
	tripID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	var req advanceTripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	trip, err := h.service.Advance(tripID, req.NextStage, getStaff(c), req.Remarks)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Stage advanced", "data": trip})
}

type failTripRequest struct {
	Remarks string `json:"remarks"`
}

// Fail terminates the trip.
// POST /api/v1/trips/:id/fail
func (h *TripHandler) Fail(c *fiber.Ctx) error {
	tripID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	var req failTripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Fail(tripID, getStaff(c), req.Remarks); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Trip failed"})
}

// History returns the ordered stage audit trail. An empty list is a valid
// answer for a freshly created trip.
// GET /api/v1/trips/:id/history
func (h *TripHandler) History(c *fiber.Ctx) error {
	tripID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	history, err := h.service.History(tripID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(history)
}

// GetTrips lists trips, optionally filtered by status.
// GET /api/v1/trips?status=ACTIVE&skip=0&limit=20
func (h *TripHandler) GetTrips(c *fiber.Ctx) error {
	skip, limit := parsePagination(c)
	trips, err := h.service.GetTrips(c.Query("status"), skip, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(trips)
}

// GetTrip returns one trip, including the derived net weight when both
// weighments exist.
// GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	tripID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid trip ID"})
	}

	trip, err := h.service.GetTrip(tripID)
	if err != nil {
		return respondError(c, err)
	}

	body := fiber.Map{"data": trip}
	if net, ok := trip.NetWeight(); ok {
		body["net_weight"] = net
	}
	return c.JSON(body)
}
