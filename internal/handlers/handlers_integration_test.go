package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"kedai/internal/handlers"
	"kedai/internal/middleware"
	"kedai/internal/models"
	"kedai/internal/repositories"
	"kedai/internal/services"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test_jwt_secret"

// testEnv is a fully wired app against a fresh in-memory SQLite database,
// seeded with a manager account and a small coffee catalog.
type testEnv struct {
	app      *fiber.App
	latte    models.Product
	capp     models.Product
	espresso models.Product
	optionM  models.Option
}

func setupApp(t *testing.T) *testEnv {
	t.Helper()

	// A unique DSN per test keeps the shared-cache databases isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Type{}, &models.Option{}, &models.Product{},
		&models.Order{}, &models.Cart{}, &models.CartItem{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	typeRepo := repositories.NewGORMTypeRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(userRepo, testJWTSecret)
	productService := services.NewProductService(productRepo, typeRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, typeRepo, nil)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewProductHandler(productService).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protected)

	handlers.NewDashboardHandler(productService).
		RegisterRoutes(app.Group("", middleware.AuthRequired(authService), middleware.ManagerOnly()))

	// Seed the manager account.
	hashed, _ := bcrypt.GenerateFromPassword([]byte("manager123"), bcrypt.DefaultCost)
	if err := userRepo.Create(&models.User{
		Username: "manager",
		Email:    "manager@kedai.local",
		Password: string(hashed),
		Role:     models.RoleManager,
	}); err != nil {
		t.Fatalf("failed to seed manager: %v", err)
	}

	// Seed the catalog.
	size, err := typeRepo.GetOrCreateByName("size")
	if err != nil {
		t.Fatalf("failed to seed type: %v", err)
	}
	optionM := models.Option{Name: "Medium", TypeID: size.ID}
	if err := typeRepo.CreateOption(&optionM); err != nil {
		t.Fatalf("failed to seed option: %v", err)
	}

	env := &testEnv{app: app, optionM: optionM}
	for _, p := range []struct {
		name  string
		slug  string
		price uint
		dst   *models.Product
	}{
		{"Latte", "latte", 1000, &env.latte},
		{"Cappuccino", "cappuccino", 2000, &env.capp},
		{"Espresso", "espresso", 500, &env.espresso},
	} {
		product := models.Product{Name: p.name, Slug: p.slug, Price: p.price, TypeID: &size.ID}
		if err := productRepo.Create(&product); err != nil {
			t.Fatalf("failed to seed product %s: %v", p.name, err)
		}
		*p.dst = product
	}

	return env
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

// registerAndLogin creates a customer over the API and returns its user id
// and bearer token.
func (e *testEnv) registerAndLogin(t *testing.T, username string) (string, string) {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var registerResp struct {
		User models.User `json:"user"`
	}
	decode(t, resp, &registerResp)

	return registerResp.User.ID, e.login(t, username, "password123")
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decode(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestOrderLifecycle(t *testing.T) {
	env := setupApp(t)
	aliceID, aliceToken := env.registerAndLogin(t, "alice")
	managerToken := env.login(t, "manager", "manager123")

	// Create: 1000x2 + 2000x1 + 500x3 = 5500
	resp := env.request(t, http.MethodPost, "/api/v1/orders", aliceToken, map[string]interface{}{
		"consume_location": "TAKE_AWAY",
		"products": []map[string]interface{}{
			{"product_id": env.latte.ID, "option_id": env.optionM.ID, "quantity": 2},
			{"product_id": env.capp.ID, "option_id": env.optionM.ID, "quantity": 1},
			{"product_id": env.espresso.ID, "option_id": env.optionM.ID, "quantity": 3},
		},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order handlers.OrderResponse
	decode(t, resp, &order)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "WAITING", order.Status)
	assert.Equal(t, "TAKE_AWAY", order.ConsumeLocation)
	assert.Equal(t, aliceID, order.UserID)
	assert.Equal(t, uint(5500), order.TotalPrice)
	assert.Len(t, order.Products, 3)
	sums := make([]uint, 0, len(order.Products))
	for _, line := range order.Products {
		sums = append(sums, line.SumPrice)
		assert.Equal(t, env.optionM.ID, line.OptionID)
	}
	assert.ElementsMatch(t, []uint{2000, 2000, 1500}, sums)

	// The owner reads it back.
	resp = env.request(t, http.MethodGet, "/api/v1/orders/"+order.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched handlers.OrderResponse
	decode(t, resp, &fetched)
	assert.Equal(t, order.TotalPrice, fetched.TotalPrice)

	// The owner may update while waiting.
	resp = env.request(t, http.MethodPut, "/api/v1/orders/"+order.ID, aliceToken, map[string]string{"status": "PREPARATION"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &fetched)
	assert.Equal(t, "PREPARATION", fetched.Status)

	// But not once the order left WAITING.
	resp = env.request(t, http.MethodPut, "/api/v1/orders/"+order.ID, aliceToken, map[string]string{"status": "READY"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// A manager always may.
	resp = env.request(t, http.MethodPut, "/api/v1/orders/"+order.ID, managerToken, map[string]string{"status": "DELIVERED"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The owner cannot delete a delivered order.
	resp = env.request(t, http.MethodDelete, "/api/v1/orders/"+order.ID, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The manager can, and the order disappears.
	resp = env.request(t, http.MethodDelete, "/api/v1/orders/"+order.ID, managerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/v1/orders/"+order.ID, managerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderScoping(t *testing.T) {
	env := setupApp(t)
	aliceID, aliceToken := env.registerAndLogin(t, "alice")
	_, bobToken := env.registerAndLogin(t, "bob")
	managerToken := env.login(t, "manager", "manager123")

	resp := env.request(t, http.MethodPost, "/api/v1/orders", aliceToken, map[string]interface{}{
		"consume_location": "IN_SHOP",
		"products": []map[string]interface{}{
			{"product_id": env.latte.ID, "option_id": env.optionM.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order handlers.OrderResponse
	decode(t, resp, &order)

	// Bob sees no orders; the manager sees Alice's.
	resp = env.request(t, http.MethodGet, "/api/v1/orders", bobToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []handlers.OrderResponse
	decode(t, resp, &orders)
	assert.Empty(t, orders)

	resp = env.request(t, http.MethodGet, "/api/v1/orders", managerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &orders)
	assert.Len(t, orders, 1)

	// Bob cannot read Alice's order or her listing.
	resp = env.request(t, http.MethodGet, "/api/v1/orders/"+order.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/v1/users/"+aliceID+"/orders", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/v1/users/"+aliceID+"/orders", aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &orders)
	assert.Len(t, orders, 1)

	resp = env.request(t, http.MethodGet, "/api/v1/users/"+aliceID+"/orders", managerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &orders)
	assert.Len(t, orders, 1)
}

func TestOrderValidationAndErrors(t *testing.T) {
	env := setupApp(t)
	_, aliceToken := env.registerAndLogin(t, "alice")

	// No token at all
	resp := env.request(t, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Empty line list
	resp = env.request(t, http.MethodPost, "/api/v1/orders", aliceToken, map[string]interface{}{
		"consume_location": "IN_SHOP",
		"products":         []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Quantity out of range
	for _, quantity := range []int{0, 101} {
		resp = env.request(t, http.MethodPost, "/api/v1/orders", aliceToken, map[string]interface{}{
			"consume_location": "IN_SHOP",
			"products": []map[string]interface{}{
				{"product_id": env.latte.ID, "option_id": env.optionM.ID, "quantity": quantity},
			},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}

	// Unknown fulfillment location
	resp = env.request(t, http.MethodPost, "/api/v1/orders", aliceToken, map[string]interface{}{
		"consume_location": "DRIVE_THROUGH",
		"products": []map[string]interface{}{
			{"product_id": env.latte.ID, "option_id": env.optionM.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown product and option references
	resp = env.request(t, http.MethodPost, "/api/v1/orders", aliceToken, map[string]interface{}{
		"consume_location": "IN_SHOP",
		"products": []map[string]interface{}{
			{"product_id": uuid.NewString(), "option_id": env.optionM.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodPost, "/api/v1/orders", aliceToken, map[string]interface{}{
		"consume_location": "IN_SHOP",
		"products": []map[string]interface{}{
			{"product_id": env.latte.ID, "option_id": uuid.NewString(), "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// No order survived any of the rejected requests.
	resp = env.request(t, http.MethodGet, "/api/v1/orders", aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []handlers.OrderResponse
	decode(t, resp, &orders)
	assert.Empty(t, orders)
}

func TestProductEndpoints(t *testing.T) {
	env := setupApp(t)
	_, customerToken := env.registerAndLogin(t, "alice")
	managerToken := env.login(t, "manager", "manager123")

	// Anyone authenticated may browse the catalog.
	resp := env.request(t, http.MethodGet, "/api/v1/products", customerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var listing struct {
		Data []handlers.ProductResponse `json:"data"`
	}
	decode(t, resp, &listing)
	assert.Len(t, listing.Data, 3)
	for _, product := range listing.Data {
		if product.Name == "Latte" {
			assert.NotNil(t, product.Type)
			assert.Equal(t, "size", product.Type.Name)
			assert.Len(t, product.Type.Options, 1)
		}
	}

	// Customers cannot write.
	resp = env.request(t, http.MethodPost, "/api/v1/products", customerToken, map[string]interface{}{
		"name": "Iced Latte", "price": 1200,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Managers can; the slug is derived from the name.
	resp = env.request(t, http.MethodPost, "/api/v1/products", managerToken, map[string]interface{}{
		"name": "Iced Latte", "price": 1200, "type": "size",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created handlers.ProductResponse
	decode(t, resp, &created)
	assert.Equal(t, "iced-latte", created.Slug)
	assert.NotNil(t, created.Type)

	// Renaming recomputes the slug, and the old slug stops resolving.
	resp = env.request(t, http.MethodPut, "/api/v1/products/iced-latte", managerToken, map[string]interface{}{
		"name": "Updated Latte", "price": 1300, "type": "size",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated handlers.ProductResponse
	decode(t, resp, &updated)
	assert.Equal(t, "updated-latte", updated.Slug)
	assert.Equal(t, created.ID, updated.ID)

	resp = env.request(t, http.MethodGet, "/api/v1/products/iced-latte", customerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/v1/products/updated-latte", customerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Deletion is slug-keyed and manager-only.
	resp = env.request(t, http.MethodDelete, "/api/v1/products/updated-latte", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodDelete, "/api/v1/products/updated-latte", managerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/v1/products/updated-latte", customerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderKeepsSnapshotPrice(t *testing.T) {
	env := setupApp(t)
	_, aliceToken := env.registerAndLogin(t, "alice")
	managerToken := env.login(t, "manager", "manager123")

	resp := env.request(t, http.MethodPost, "/api/v1/orders", aliceToken, map[string]interface{}{
		"consume_location": "IN_SHOP",
		"products": []map[string]interface{}{
			{"product_id": env.latte.ID, "option_id": env.optionM.ID, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order handlers.OrderResponse
	decode(t, resp, &order)
	assert.Equal(t, uint(2000), order.TotalPrice)

	// The catalog price changes after the fact.
	resp = env.request(t, http.MethodPut, "/api/v1/products/latte", managerToken, map[string]interface{}{
		"name": "Latte", "price": 9999, "type": "size",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The order still carries the price captured at creation time.
	resp = env.request(t, http.MethodGet, "/api/v1/orders/"+order.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched handlers.OrderResponse
	decode(t, resp, &fetched)
	assert.Equal(t, uint(2000), fetched.TotalPrice)
	assert.Equal(t, uint(2000), fetched.Products[0].SumPrice)
}

func TestDashboardAccess(t *testing.T) {
	env := setupApp(t)
	_, customerToken := env.registerAndLogin(t, "alice")
	managerToken := env.login(t, "manager", "manager123")

	resp := env.request(t, http.MethodGet, "/dashboard/products", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/dashboard/products", managerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(body), "Latte")
}
