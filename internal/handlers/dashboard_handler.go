package handlers

import (
	"log"
	"strconv"

	"kedai/internal/middleware"
	"kedai/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the thin server-rendered product admin views.
type DashboardHandler struct {
	products *services.ProductService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(products *services.ProductService) *DashboardHandler {
	return &DashboardHandler{products: products}
}

// RegisterRoutes registers the dashboard routes. The caller wraps them in
// the auth and manager middlewares.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	dashboard := router.Group("/dashboard")
	dashboard.Get("/products", h.Index)
	dashboard.Get("/products/new", h.New)
	dashboard.Post("/products", h.Store)
	dashboard.Get("/products/:slug", h.Show)
}

// Index lists all products.
func (h *DashboardHandler) Index(c *fiber.Ctx) error {
	products, err := h.products.List()
	if err != nil {
		log.Printf("Error loading products for dashboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load products")
	}
	return c.Render("products_index", fiber.Map{"Products": products})
}

// New shows the product creation form with the available types.
func (h *DashboardHandler) New(c *fiber.Ctx) error {
	types, err := h.products.Types()
	if err != nil {
		log.Printf("Error loading types for dashboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load types")
	}
	return c.Render("products_new", fiber.Map{"Types": types})
}

// Store creates a product from the submitted form and redirects back to
// the listing.
func (h *DashboardHandler) Store(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)

	price, err := strconv.ParseUint(c.FormValue("price"), 10, 64)
	if err != nil || c.FormValue("name") == "" {
		return c.Status(fiber.StatusBadRequest).SendString("invalid name or price")
	}

	if _, err := h.products.Create(actor, services.ProductInput{
		Name:     c.FormValue("name"),
		Price:    uint(price),
		TypeName: c.FormValue("type"),
	}); err != nil {
		log.Printf("Error creating product from dashboard: %v", err)
		return c.Status(statusFromError(err)).SendString("could not create product")
	}

	return c.Redirect("/dashboard/products")
}

// Show displays a single product.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	product, err := h.products.GetBySlug(c.Params("slug"))
	if err != nil {
		log.Printf("Error loading product for dashboard: %v", err)
		return c.Status(statusFromError(err)).SendString("Product not found")
	}
	return c.Render("products_show", fiber.Map{"Product": product})
}
