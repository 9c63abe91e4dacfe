package handler

import (
	"go-weighbridge-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchaseOrderHandler struct {
	service service.PurchaseOrderService
}

func NewPurchaseOrderHandler(s service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: s}
}

// Create registers a purchase order with its material lines.
// POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var req service.CreatePORequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	po, err := h.service.Create(&req, getStaff(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Purchase order created", "data": po})
}

// GetAll lists purchase orders, optionally filtered by status.
// GET /api/v1/purchase-orders?status=Active&skip=0&limit=20
func (h *PurchaseOrderHandler) GetAll(c *fiber.Ctx) error {
	skip, limit := parsePagination(c)
	pos, err := h.service.GetAll(c.Query("status"), skip, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(pos)
}

// GetByID returns one purchase order with per-line progress.
// GET /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	poID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	po, err := h.service.GetByID(poID)
	if err != nil {
		return respondError(c, err)
	}

	progress, err := h.service.Progress(poID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": po, "progress": progress})
}

type updateReceivedRequest struct {
	ReceivedQty float64 `json:"received_qty"`
}

// UpdateReceived credits quantity against one material line.
// PUT /api/v1/purchase-orders/:id/materials/:materialId/received
func (h *PurchaseOrderHandler) UpdateReceived(c *fiber.Ctx) error {
	poID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}
	materialID, err := parseUUIDParam(c, "materialId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid material ID"})
	}

	var req updateReceivedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	po, err := h.service.UpdateReceived(poID, materialID, req.ReceivedQty, getStaff(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Received quantity updated", "data": po})
}

// Close marks the purchase order Closed.
// PUT /api/v1/purchase-orders/:id/close
func (h *PurchaseOrderHandler) Close(c *fiber.Ctx) error {
	poID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	if err := h.service.Close(poID, getStaff(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Purchase order closed"})
}
