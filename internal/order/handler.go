package order

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/chanwit-mk/marketplace-backend/internal/item"
	"github.com/chanwit-mk/marketplace-backend/internal/user"
)

// CartClearer empties a user's cart after a successful checkout.
type CartClearer interface {
	Clear(userID int) error
}

// Handler delegates order operations to the order service. It also clears
// the cart once checkout succeeds.
type Handler struct {
	service *Service
	cart    CartClearer
}

func NewHandler(s *Service, cart CartClearer) *Handler {
	return &Handler{service: s, cart: cart}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/orders", h.createOrder)
	app.Get("/api/orders", h.getOrders)
	app.Post("/api/orders/:id<[0-9]+>/cancel", h.cancelOrder)
}

func (h *Handler) RegisterMerchantRoutes(app *fiber.App, guard fiber.Handler) {
	app.Get("/api/merchant/orders", guard, h.getMerchantOrders)
	app.Post("/api/merchant/orders/:id<[0-9]+>/status", guard, h.updateStatus)
}

type createOrderRequest struct {
	ShippingFirstName     string          `json:"shipping_first_name"`
	ShippingLastName      string          `json:"shipping_last_name"`
	ShippingAddress       string          `json:"shipping_address"`
	ShippingProperty      string          `json:"shipping_property"`
	ShippingCountryID     int             `json:"shipping_country_id"`
	ShippingStateID       int             `json:"shipping_state_id"`
	ShippingCityID        int             `json:"shipping_city_id"`
	ShippingZipPostalCode string          `json:"shipping_zip_postal_code"`
	ShippingPhone         string          `json:"shipping_phone"`
	ShippingEmail         string          `json:"shipping_email"`
	PaymentMethod         string          `json:"payment_method"`
	Items                 []LineInput     `json:"items"`
	Total                 decimal.Decimal `json:"total"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	created, err := h.service.Place(userID, PlaceInput{
		Shipping: ShippingInfo{
			FirstName:     payload.ShippingFirstName,
			LastName:      payload.ShippingLastName,
			Address:       payload.ShippingAddress,
			Property:      payload.ShippingProperty,
			CountryID:     payload.ShippingCountryID,
			StateID:       payload.ShippingStateID,
			CityID:        payload.ShippingCityID,
			ZipPostalCode: payload.ShippingZipPostalCode,
			Phone:         payload.ShippingPhone,
			Email:         payload.ShippingEmail,
		},
		PaymentMethod: payload.PaymentMethod,
		Items:         payload.Items,
		Total:         payload.Total,
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": verr.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	// the cart is cleared as a separate step; a failure here does not undo
	// the order
	if err := h.cart.Clear(userID); err != nil {
		log.WithFields(log.Fields{"user_id": userID, "order_id": created.ID}).
			Warnf("could not clear cart after checkout: %v", err)
	}

	return c.JSON(fiber.Map{"success": true, "order": created})
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	if err := h.service.Cancel(id, userID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
		case errors.Is(err, ErrNotPending):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Order cannot be cancelled"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) getMerchantOrders(c *fiber.Ctx) error {
	merchantID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListByMerchant(merchantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	merchantID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.service.UpdateStatus(id, merchantID, payload.Status); err != nil {
		var verr *ValidationError
		var stockErr *item.InsufficientStockError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": verr.Error()})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrNoMerchantItems):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
		case errors.Is(err, ErrBadTransition):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid status transition"})
		case errors.As(err, &stockErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": stockErr.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
