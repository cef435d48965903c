package payment

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/chanwit-mk/marketplace-backend/internal/order"
	"github.com/chanwit-mk/marketplace-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/orders/:id<[0-9]+>/pay", h.pay)
}

func (h *Handler) pay(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	intent, err := h.service.Pay(id, userID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, order.ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
		case errors.Is(err, ErrNotCardOrder):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "order is not paid by card"})
		case errors.Is(err, ErrOrderClosed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "order is no longer awaiting payment"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to create payment intent"})
		}
	}

	return c.JSON(fiber.Map{"success": true, "intent": intent})
}
