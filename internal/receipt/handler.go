package receipt

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/chanwit-mk/marketplace-backend/internal/order"
	"github.com/chanwit-mk/marketplace-backend/internal/user"
)

type Handler struct {
	service *Service
	debug   bool
}

func NewHandler(s *Service, debug bool) *Handler {
	return &Handler{service: s, debug: debug}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/orders/:id<[0-9]+>/send-receipt", h.sendReceipt)
}

func (h *Handler) sendReceipt(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	if err := h.service.Send(id, userID); err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, order.ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
		default:
			var details any
			if h.debug {
				details = err.Error()
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to send receipt",
				"details": details,
			})
		}
	}

	return c.JSON(fiber.Map{"message": "Receipt sent successfully"})
}
