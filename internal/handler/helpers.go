package handler

import (
	"errors"
	"strconv"

	"go-weighbridge-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getStaff pulls the operator identity the auth middleware stored in the
// request context. Every mutating domain call is attributed to it.
func getStaff(c *fiber.Ctx) service.Staff {
	staff := service.Staff{ID: "system", Name: "Unknown"}
	if v, ok := c.Locals("user_id").(string); ok {
		staff.ID = v
	}
	if v, ok := c.Locals("user_name").(string); ok {
		staff.Name = v
	}
	if v, ok := c.Locals("user_role").(string); ok {
		staff.Role = v
	}
	return staff
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// parsePagination reads the optional skip/limit query params used by every
// list endpoint.
func parsePagination(c *fiber.Ctx) (skip, limit int) {
	skip, _ = strconv.Atoi(c.Query("skip", "0"))
	limit, _ = strconv.Atoi(c.Query("limit", "0"))
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	return skip, limit
}

// respondError maps the service error taxonomy to HTTP statuses. Anything
// outside the taxonomy surfaces as 500 with the store's detail.
func respondError(c *fiber.Ctx, err error) error {
	var legErr *service.LegError
	if errors.As(err, &legErr) {
		status := statusFor(legErr.Err)
		return c.Status(status).JSON(fiber.Map{
			"error": legErr.Error(),
			"leg":   legErr.Leg,
		})
	}
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrStageMismatch),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrVehicleRejected):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
