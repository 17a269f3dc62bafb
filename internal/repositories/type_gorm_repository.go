package repositories

import (
	"errors"
	"fmt"

	"kedai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTypeRepository is a GORM implementation of TypeRepository.
type GORMTypeRepository struct {
	db *gorm.DB
}

// NewGORMTypeRepository creates a new instance of GORMTypeRepository.
func NewGORMTypeRepository(db *gorm.DB) *GORMTypeRepository {
	return &GORMTypeRepository{
		db: db,
	}
}

// GetAll retrieves all types with their options.
func (r *GORMTypeRepository) GetAll() ([]models.Type, error) {
	var types []models.Type
	if err := r.db.Preload("Options").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to get all types: %w", err)
	}
	return types, nil
}

// GetByID retrieves a single type by its ID with its options.
func (r *GORMTypeRepository) GetByID(id string) (*models.Type, error) {
	var t models.Type
	if err := r.db.Preload("Options").First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("type with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get type by ID %s: %w", id, err)
	}
	return &t, nil
}

// GetOrCreateByName returns the type with the given name, creating it first
// when no such type exists yet. Products referencing a new type name create
// the type implicitly through this.
func (r *GORMTypeRepository) GetOrCreateByName(name string) (*models.Type, error) {
	var t models.Type
	err := r.db.Preload("Options").First(&t, "name = ?", name).Error
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get type by name %s: %w", name, err)
	}

	t = models.Type{ID: uuid.New().String(), Name: name}
	if err := r.db.Create(&t).Error; err != nil {
		return nil, fmt.Errorf("failed to create type %s: %w", name, err)
	}
	return &t, nil
}

// GetOptionByID retrieves a single option by its ID.
func (r *GORMTypeRepository) GetOptionByID(id string) (*models.Option, error) {
	var option models.Option
	if err := r.db.First(&option, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("option with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get option by ID %s: %w", id, err)
	}
	return &option, nil
}

// CreateOption creates a new option under its type.
func (r *GORMTypeRepository) CreateOption(option *models.Option) error {
	if option.ID == "" {
		option.ID = uuid.New().String()
	}
	if err := r.db.Create(option).Error; err != nil {
		return fmt.Errorf("failed to create option: %w", err)
	}
	return nil
}
