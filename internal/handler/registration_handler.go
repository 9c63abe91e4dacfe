package handler

import (
	"go-weighbridge-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RegistrationHandler struct {
	service service.RegistrationService
}

func NewRegistrationHandler(s service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: s}
}

// Register creates (or reuses) a vehicle and creates a driver in one call
// from the security gate.
// POST /api/v1/registrations
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Register(&req, getStaff(c))
	if err != nil {
		return respondError(c, err)
	}

	status := 201
	if result.VehicleReused {
		status = 200
	}
	return c.Status(status).JSON(fiber.Map{"message": "Registration recorded", "data": result})
}

// GetVehicles lists vehicles, optionally filtered by approval status.
// GET /api/v1/vehicles?approval_status=Pending&skip=0&limit=20
func (h *RegistrationHandler) GetVehicles(c *fiber.Ctx) error {
	skip, limit := parsePagination(c)
	vehicles, err := h.service.GetVehicles(c.Query("approval_status"), skip, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(vehicles)
}

// GetDrivers lists drivers, optionally filtered by approval status.
// GET /api/v1/drivers?approval_status=Pending&skip=0&limit=20
func (h *RegistrationHandler) GetDrivers(c *fiber.Ctx) error {
	skip, limit := parsePagination(c)
	drivers, err := h.service.GetDrivers(c.Query("approval_status"), skip, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(drivers)
}

// PUT /api/v1/vehicles/:id/approve
func (h *RegistrationHandler) ApproveVehicle(c *fiber.Ctx) error {
	if err := h.service.ApproveVehicle(c.Params("id"), getStaff(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vehicle approved"})
}

// PUT /api/v1/vehicles/:id/reject
func (h *RegistrationHandler) RejectVehicle(c *fiber.Ctx) error {
	if err := h.service.RejectVehicle(c.Params("id"), getStaff(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vehicle rejected"})
}

// PUT /api/v1/drivers/:id/approve
func (h *RegistrationHandler) ApproveDriver(c *fiber.Ctx) error {
	if err := h.service.ApproveDriver(c.Params("id"), getStaff(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Driver approved"})
}

// PUT /api/v1/drivers/:id/reject
func (h *RegistrationHandler) RejectDriver(c *fiber.Ctx) error {
	if err := h.service.RejectDriver(c.Params("id"), getStaff(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Driver rejected"})
}
