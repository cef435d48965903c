package item

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/chanwit-mk/marketplace-backend/internal/user"
)

// Handler exposes the catalog and the merchant item management endpoints.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/items", h.listCatalog)
	app.Get("/api/items/:id<[0-9]+>", h.getItem)
	app.Get("/api/search", h.search)
}

func (h *Handler) RegisterMerchantRoutes(app *fiber.App, guard fiber.Handler) {
	app.Get("/api/merchant/items", guard, h.listMerchantItems)
	app.Post("/api/merchant/items", guard, h.createItem)
	app.Patch("/api/merchant/items/:id<[0-9]+>/stock", guard, h.updateStock)
	app.Delete("/api/merchant/items/:id<[0-9]+>", guard, h.deleteItem)
}

type createItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url"`
	Categories  []int           `json:"categories"`
}

type updateStockRequest struct {
	Stock int `json:"stock"`
}

func (h *Handler) listCatalog(c *fiber.Ctx) error {
	items, err := h.service.ListCatalog()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"data": items, "total": len(items)})
}

func (h *Handler) getItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	it, err := h.service.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(it)
}

func (h *Handler) search(c *fiber.Ctx) error {
	var categoryIDs []int
	if raw := c.Query("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid category id"})
			}
			categoryIDs = append(categoryIDs, id)
		}
	}

	items, err := h.service.Search(c.Query("query"), categoryIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Search failed"})
	}
	return c.JSON(items)
}

func (h *Handler) listMerchantItems(c *fiber.Ctx) error {
	merchantID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	items, err := h.service.ListByMerchant(merchantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(items)
}

func (h *Handler) createItem(c *fiber.Ctx) error {
	merchantID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(createItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(Item{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		ImageURL:    payload.ImageURL,
		MerchantID:  merchantID,
	}, payload.Categories)
	if err != nil {
		switch err {
		case ErrMissingName, ErrInvalidPrice, ErrInvalidStock, ErrUnknownCategory:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Validation failed", "errors": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create item"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item added successfully", "item": created})
}

func (h *Handler) updateStock(c *fiber.Ctx) error {
	merchantID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(updateStockRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	it, err := h.service.SetStock(merchantID, id, payload.Stock)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not found"})
		case errors.Is(err, ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
		case errors.Is(err, ErrInvalidStock):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update stock"})
		}
	}

	return c.JSON(fiber.Map{"message": "Stock updated successfully", "item": it})
}

func (h *Handler) deleteItem(c *fiber.Ctx) error {
	merchantID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	if err := h.service.Delete(merchantID, id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not found"})
		case errors.Is(err, ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
