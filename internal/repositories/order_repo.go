package repositories

import (
	"kedai/internal/models"
)

// OrderRepository defines the interface for order data access. Create must
// persist the whole aggregate (order, cart and items) atomically.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetAllByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	Delete(id string) error
}
