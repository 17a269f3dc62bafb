package repositories

import (
	"errors"
	"fmt"

	"kedai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders with their cart items loaded.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Cart.Items").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetAllByUser retrieves the orders owned by the given user.
func (r *GORMOrderRepository) GetAllByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Cart.Items").Find(&orders, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// GetByID retrieves a single order aggregate by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Cart.Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create persists the order together with its cart and items in one
// transaction. The order row is written with a zero total first and the
// computed total last, so either the whole aggregate exists or none of it.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Cart.ID == "" {
		order.Cart.ID = uuid.New().String()
	}
	order.Cart.OrderID = order.ID
	for i := range order.Cart.Items {
		if order.Cart.Items[i].ID == "" {
			order.Cart.Items[i].ID = uuid.New().String()
		}
		order.Cart.Items[i].CartID = order.Cart.ID
	}

	total := order.TotalPrice
	order.TotalPrice = 0

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order aggregate: %w", err)
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("total_price", total).Error; err != nil {
			return fmt.Errorf("failed to set order total: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.TotalPrice = total
	return nil
}

// Update persists the mutable order fields. Total price is intentionally
// not part of the update set; it is only ever written by Create.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"status":           order.Status,
		"consume_location": order.ConsumeLocation,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s for update: %w", order.ID, ErrNotFound)
	}
	return nil
}

// Delete soft-deletes an order. Its cart and items stay in place but become
// unreachable through the order.
func (r *GORMOrderRepository) Delete(id string) error {
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
