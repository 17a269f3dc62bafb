package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog item. Slug is derived from Name and is the
// route key for product mutation endpoints. Price is an integer in the
// smallest currency unit.
type Product struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string         `json:"name" validate:"required,min=3,max=100"`
	Slug      string         `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	Price     uint           `json:"price" validate:"gte=0"`
	TypeID    *string        `json:"type_id,omitempty" gorm:"type:varchar(36)"`
	Type      *Type          `json:"type,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Type groups products that share a set of selectable options (e.g. a
// "size" type with Small/Medium/Large options).
type Type struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100)" validate:"required"`
	Options   []Option  `json:"options"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Option is one selectable variant that belongs to a Type.
type Option struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100)" validate:"required"`
	TypeID    string    `json:"type_id" gorm:"type:varchar(36);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
