package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the order lifecycle enumeration.
type OrderStatus string

const (
	StatusWaiting     OrderStatus = "WAITING"
	StatusPreparation OrderStatus = "PREPARATION"
	StatusReady       OrderStatus = "READY"
	StatusDelivered   OrderStatus = "DELIVERED"
)

// ConsumeLocation is where the customer takes the order.
type ConsumeLocation string

const (
	LocationTakeAway ConsumeLocation = "TAKE_AWAY"
	LocationInShop   ConsumeLocation = "IN_SHOP"
)

// Order is a customer order. TotalPrice is always computed from the cart
// items and never accepted from the client once the order exists.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);default:'WAITING'"`
	ConsumeLocation ConsumeLocation `json:"consume_location" gorm:"type:varchar(20)"`
	TotalPrice      uint            `json:"total_price"`
	Cart            Cart            `json:"cart"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// Cart holds an order's line items. Each order owns exactly one cart,
// created together with the order.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string     `json:"order_id" gorm:"type:varchar(36);uniqueIndex"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one (product, option, quantity) line in a cart. SumPrice is a
// snapshot of quantity * product price taken at order creation time; later
// catalog price changes never touch it.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cart_id" gorm:"type:varchar(36);index"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36)"`
	OptionID  string    `json:"option_id" gorm:"type:varchar(36)"`
	Quantity  int       `json:"quantity"`
	SumPrice  uint      `json:"sum_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
