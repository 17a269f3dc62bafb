package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleManager  Role = "MANAGER"
)

// User represents a user of the shop.
type User struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string         `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string         `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string         `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role      Role           `json:"role" gorm:"type:varchar(20);default:'CUSTOMER'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Actor is the authenticated identity a request acts as. Authorization
// decisions are pure functions of an Actor and a resource snapshot.
type Actor struct {
	ID   string
	Role Role
}

// IsManager reports whether the actor holds the MANAGER role.
func (a Actor) IsManager() bool {
	return a.Role == RoleManager
}
