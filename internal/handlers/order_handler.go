package handlers

import (
	"errors"
	"log"

	"kedai/internal/middleware"
	"kedai/internal/models"
	"kedai/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Put("/:id", h.HandleUpdateOrder)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)

	router.Get("/users/:user/orders", h.HandleGetUserOrders)
}

// OrderLineRequest is one requested line in an order payload.
type OrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	OptionID  string `json:"option_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

// CreateOrderRequest is the POST /orders payload.
type CreateOrderRequest struct {
	ConsumeLocation string             `json:"consume_location" validate:"required,oneof=TAKE_AWAY IN_SHOP"`
	Products        []OrderLineRequest `json:"products" validate:"required,min=1,dive"`
}

// UpdateOrderRequest is the PUT /orders/:id payload. All fields optional;
// total_price is deliberately absent.
type UpdateOrderRequest struct {
	Status          *string `json:"status" validate:"omitempty,oneof=WAITING PREPARATION READY DELIVERED"`
	ConsumeLocation *string `json:"consume_location" validate:"omitempty,oneof=TAKE_AWAY IN_SHOP"`
}

// OrderItemResponse is one line item in the order representation.
type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	SumPrice  uint   `json:"sum_price"`
	OptionID  string `json:"option_id"`
}

// OrderResponse is the wire representation of an order aggregate.
type OrderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	TotalPrice      uint                `json:"total_price"`
	ConsumeLocation string              `json:"consume_location"`
	UserID          string              `json:"user_id"`
	Products        []OrderItemResponse `json:"products"`
}

func toOrderResponse(order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Cart.Items))
	for _, item := range order.Cart.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			SumPrice:  item.SumPrice,
			OptionID:  item.OptionID,
		})
	}
	return OrderResponse{
		ID:              order.ID,
		Status:          string(order.Status),
		TotalPrice:      order.TotalPrice,
		ConsumeLocation: string(order.ConsumeLocation),
		UserID:          order.UserID,
		Products:        items,
	}
}

func toOrderResponses(orders []models.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	return responses
}

// HandleGetOrders lists orders. Managers see all orders; customers only
// their own.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	orders, err := h.service.List(actor)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(toOrderResponses(orders))
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	orderID := c.Params("id")

	order, err := h.service.Get(orderID, actor)
	if err != nil {
		if errors.Is(err, services.ErrPermissionDenied) {
			return c.SendStatus(fiber.StatusForbidden)
		}
		log.Printf("Error getting order %s: %v", orderID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(toOrderResponse(order))
}

// HandleCreateOrder runs the pricing workflow for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	lines := make([]services.OrderLine, 0, len(req.Products))
	for _, p := range req.Products {
		lines = append(lines, services.OrderLine{
			ProductID: p.ProductID,
			OptionID:  p.OptionID,
			Quantity:  p.Quantity,
		})
	}

	order, err := h.service.Create(actor.ID, models.ConsumeLocation(req.ConsumeLocation), lines)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// HandleUpdateOrder applies status/location changes. An authorization
// refusal is a payload-less 403.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	orderID := c.Params("id")

	var req UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	var changes services.OrderChanges
	if req.Status != nil {
		status := models.OrderStatus(*req.Status)
		changes.Status = &status
	}
	if req.ConsumeLocation != nil {
		location := models.ConsumeLocation(*req.ConsumeLocation)
		changes.ConsumeLocation = &location
	}

	order, err := h.service.Update(orderID, changes, actor)
	if err != nil {
		if errors.Is(err, services.ErrPermissionDenied) {
			return c.SendStatus(fiber.StatusForbidden)
		}
		log.Printf("Error updating order %s: %v", orderID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not update order",
			"error":   err.Error(),
		})
	}

	return c.JSON(toOrderResponse(order))
}

// HandleDeleteOrder soft-deletes an order: 204 on success, 403 when the
// actor may not.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	orderID := c.Params("id")

	deleted, err := h.service.Delete(orderID, actor)
	if err != nil {
		log.Printf("Error deleting order %s: %v", orderID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not delete order",
			"error":   err.Error(),
		})
	}
	if !deleted {
		return c.SendStatus(fiber.StatusForbidden)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetUserOrders lists the orders of the user in the path. Customers
// may only request their own.
func (h *OrderHandler) HandleGetUserOrders(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	userID := c.Params("user")

	orders, err := h.service.ListForUser(userID, actor)
	if err != nil {
		if errors.Is(err, services.ErrPermissionDenied) {
			return c.SendStatus(fiber.StatusForbidden)
		}
		log.Printf("Error listing orders for user %s: %v", userID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(toOrderResponses(orders))
}
