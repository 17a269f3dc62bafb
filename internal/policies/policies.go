// Package policies holds the authorization predicates. Every decision is a
// pure function of the acting user and a resource snapshot; there is no
// hidden state and no database access here.
package policies

import "kedai/internal/models"

// CanViewProducts reports whether the actor may list or view products.
// Any authenticated user may browse the catalog.
func CanViewProducts(actor models.Actor) bool {
	return true
}

// CanManageProduct reports whether the actor may create, update or delete
// products. Only managers may.
func CanManageProduct(actor models.Actor) bool {
	return actor.IsManager()
}

// CanMutateOrder reports whether the actor may update or delete the given
// order. Managers always may; a customer only while the order is theirs and
// still waiting.
func CanMutateOrder(actor models.Actor, order *models.Order) bool {
	if actor.IsManager() {
		return true
	}
	return actor.Role == models.RoleCustomer &&
		actor.ID == order.UserID &&
		order.Status == models.StatusWaiting
}

// CanViewOrder reports whether the actor may read the given order.
func CanViewOrder(actor models.Actor, order *models.Order) bool {
	return actor.IsManager() || actor.ID == order.UserID
}

// CanViewUserOrders reports whether the actor may list the orders of the
// given user. Customers are scoped to their own orders.
func CanViewUserOrders(actor models.Actor, userID string) bool {
	return actor.IsManager() || actor.ID == userID
}
