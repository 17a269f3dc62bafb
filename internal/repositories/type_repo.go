package repositories

import (
	"kedai/internal/models"
)

// TypeRepository defines the interface for product type and option access.
type TypeRepository interface {
	GetAll() ([]models.Type, error)
	GetByID(id string) (*models.Type, error)
	GetOrCreateByName(name string) (*models.Type, error)
	GetOptionByID(id string) (*models.Option, error)
	CreateOption(option *models.Option) error
}
