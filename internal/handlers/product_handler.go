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

// ProductHandler handles HTTP requests for products. Mutation routes are
// keyed by the product slug, not its ID.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:slug", h.HandleGetProductBySlug)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:slug", h.HandleUpdateProduct)
	productRoutes.Delete("/:slug", h.HandleDeleteProduct)
}

// ProductRequest is the create/update payload.
type ProductRequest struct {
	Name  string `json:"name" validate:"required,min=3,max=100"`
	Price uint   `json:"price" validate:"gte=0"`
	Type  string `json:"type" validate:"omitempty,max=100"`
}

// OptionResponse is one selectable option of a product type.
type OptionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TypeResponse is the embedded type of a product.
type TypeResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Options []OptionResponse `json:"options"`
}

// ProductResponse is the wire representation of a product.
type ProductResponse struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Slug  string        `json:"slug"`
	Price uint          `json:"price"`
	Type  *TypeResponse `json:"type,omitempty"`
}

func toProductResponse(product *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:    product.ID,
		Name:  product.Name,
		Slug:  product.Slug,
		Price: product.Price,
	}
	if product.Type != nil {
		t := &TypeResponse{
			ID:      product.Type.ID,
			Name:    product.Type.Name,
			Options: make([]OptionResponse, 0, len(product.Type.Options)),
		}
		for _, option := range product.Type.Options {
			t.Options = append(t.Options, OptionResponse{ID: option.ID, Name: option.Name})
		}
		resp.Type = t
	}
	return resp
}

// HandleGetProducts lists the catalog wrapped in a "data" envelope.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.List()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, toProductResponse(&products[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// HandleGetProductBySlug retrieves a single product by its slug.
func (h *ProductHandler) HandleGetProductBySlug(c *fiber.Ctx) error {
	slugKey := c.Params("slug")
	product, err := h.service.GetBySlug(slugKey)
	if err != nil {
		log.Printf("Error getting product %s: %v", slugKey, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(toProductResponse(product))
}

// HandleCreateProduct creates a product. Managers only.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
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

	product, err := h.service.Create(actor, services.ProductInput{
		Name:     req.Name,
		Price:    req.Price,
		TypeName: req.Type,
	})
	if err != nil {
		if errors.Is(err, services.ErrPermissionDenied) {
			return c.SendStatus(fiber.StatusForbidden)
		}
		log.Printf("Error creating product: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

// HandleUpdateProduct updates the product behind the slug. The slug is
// recomputed from the new name.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	slugKey := c.Params("slug")

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product update body: %v", err)
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

	product, err := h.service.Update(actor, slugKey, services.ProductInput{
		Name:     req.Name,
		Price:    req.Price,
		TypeName: req.Type,
	})
	if err != nil {
		if errors.Is(err, services.ErrPermissionDenied) {
			return c.SendStatus(fiber.StatusForbidden)
		}
		log.Printf("Error updating product %s: %v", slugKey, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}

	return c.JSON(toProductResponse(product))
}

// HandleDeleteProduct soft-deletes the product behind the slug: 204 on
// success, 403 when the actor may not.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	slugKey := c.Params("slug")

	deleted, err := h.service.Delete(actor, slugKey)
	if err != nil {
		log.Printf("Error deleting product %s: %v", slugKey, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	if !deleted {
		return c.SendStatus(fiber.StatusForbidden)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
