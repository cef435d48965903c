package merchantapp

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/chanwit-mk/marketplace-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/merchant/apply", h.apply)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App, guard fiber.Handler) {
	app.Get("/api/admin/merchant-applications", guard, h.listPending)
	app.Post("/api/admin/merchant-applications/:id<[0-9]+>/approve", guard, h.review(StatusApproved))
	app.Post("/api/admin/merchant-applications/:id<[0-9]+>/reject", guard, h.review(StatusRejected))
}

type applyRequest struct {
	Reason string `json:"reason"`
}

type reviewRequest struct {
	AdminNotes *string `json:"admin_notes"`
}

func (h *Handler) apply(c *fiber.Ctx) error {
	payload := new(applyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	app, err := h.service.Apply(userID, payload.Reason)
	if err != nil {
		switch err {
		case ErrReasonTooShort:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
		case ErrAlreadyPending:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "You already have a pending application."})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "application": app})
}

func (h *Handler) listPending(c *fiber.Ctx) error {
	apps, err := h.service.ListPending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(apps)
}

func (h *Handler) review(status string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
		}

		payload := new(reviewRequest)
		if err := c.BodyParser(payload); err != nil && err != fiber.ErrUnprocessableEntity {
			// empty body is fine, notes are optional
			payload = &reviewRequest{}
		}

		app, err := h.service.Review(id, status, payload.AdminNotes)
		if err != nil {
			switch err {
			case ErrNotFound:
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "application not found"})
			case ErrAlreadyRevised:
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "application already reviewed"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
			}
		}

		return c.JSON(fiber.Map{"success": true, "application": app})
	}
}
