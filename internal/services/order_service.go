package services

import (
	"fmt"

	"kedai/internal/models"
	"kedai/internal/notifications"
	"kedai/internal/policies"
	"kedai/internal/repositories"
)

// Quantity bounds for a single order line.
const (
	MinQuantity = 1
	MaxQuantity = 100
)

// OrderLine is one requested (product, option, quantity) entry.
type OrderLine struct {
	ProductID string
	OptionID  string
	Quantity  int
}

// OrderChanges are the client-mutable order fields. Total price is not
// among them; it is computed once at creation and never written again.
type OrderChanges struct {
	Status          *models.OrderStatus
	ConsumeLocation *models.ConsumeLocation
}

// OrderService handles the order pricing workflow and order mutation.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	typeRepo    repositories.TypeRepository
	notifier    notifications.Notifier
}

// NewOrderService creates a new OrderService. The notifier may be nil when
// no messaging backend is configured.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, typeRepo repositories.TypeRepository, notifier notifications.Notifier) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		typeRepo:    typeRepo,
		notifier:    notifier,
	}
}

// Create builds and persists an order aggregate for the given user. Each
// line's price is resolved from the catalog now and snapshotted into the
// cart item; later product price changes never touch existing orders. The
// whole aggregate is written atomically by the repository.
func (s *OrderService) Create(userID string, location models.ConsumeLocation, lines []OrderLine) (*models.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("an order cannot exist without a user: %w", ErrInvalidInput)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("an order needs at least one line: %w", ErrInvalidInput)
	}

	var total uint
	items := make([]models.CartItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < MinQuantity || line.Quantity > MaxQuantity {
			return nil, fmt.Errorf("quantity %d is out of range [%d,%d]: %w",
				line.Quantity, MinQuantity, MaxQuantity, ErrInvalidInput)
		}

		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		option, err := s.typeRepo.GetOptionByID(line.OptionID)
		if err != nil {
			return nil, err
		}

		sum := product.Price * uint(line.Quantity)
		items = append(items, models.CartItem{
			ProductID: product.ID,
			OptionID:  option.ID,
			Quantity:  line.Quantity,
			SumPrice:  sum,
		})
		total += sum
	}

	order := &models.Order{
		UserID:          userID,
		Status:          models.StatusWaiting,
		ConsumeLocation: location,
		TotalPrice:      total,
		Cart:            models.Cart{Items: items},
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return s.orderRepo.GetByID(order.ID)
}

// Update applies status/location changes when the actor is allowed to. A
// genuine status transition hands the updated order to the notifier; the
// hand-off is a queue publish, delivery happens out of band.
func (s *OrderService) Update(orderID string, changes OrderChanges, actor models.Actor) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !policies.CanMutateOrder(actor, order) {
		return nil, ErrPermissionDenied
	}

	oldStatus := order.Status
	if changes.Status != nil {
		order.Status = *changes.Status
	}
	if changes.ConsumeLocation != nil {
		order.ConsumeLocation = *changes.ConsumeLocation
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", orderID, err)
	}

	// Fire only on an actual transition; re-saving the same status stays
	// silent.
	if order.Status != oldStatus && s.notifier != nil {
		s.notifier.OrderStatusChanged(order)
	}

	return order, nil
}

// Delete soft-deletes the order when the actor is allowed to. The boolean
// tells the caller whether anything was deleted; a false with a nil error
// is an authorization refusal.
func (s *OrderService) Delete(orderID string, actor models.Actor) (bool, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return false, err
	}
	if !policies.CanMutateOrder(actor, order) {
		return false, nil
	}
	if err := s.orderRepo.Delete(order.ID); err != nil {
		return false, fmt.Errorf("failed to delete order %s: %w", orderID, err)
	}
	return true, nil
}

// Get retrieves a single order the actor may see.
func (s *OrderService) Get(orderID string, actor models.Actor) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !policies.CanViewOrder(actor, order) {
		return nil, ErrPermissionDenied
	}
	return order, nil
}

// List returns all orders for a manager and only the actor's own orders
// for a customer.
func (s *OrderService) List(actor models.Actor) ([]models.Order, error) {
	if actor.IsManager() {
		return s.orderRepo.GetAll()
	}
	return s.orderRepo.GetAllByUser(actor.ID)
}

// ListForUser returns the given user's orders, provided the actor may see
// them.
func (s *OrderService) ListForUser(userID string, actor models.Actor) ([]models.Order, error) {
	if !policies.CanViewUserOrders(actor, userID) {
		return nil, ErrPermissionDenied
	}
	return s.orderRepo.GetAllByUser(userID)
}
