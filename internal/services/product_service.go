package services

import (
	"fmt"

	"kedai/internal/models"
	"kedai/internal/policies"
	"kedai/internal/repositories"

	"github.com/gosimple/slug"
)

// ProductInput carries the writable product fields. TypeName, when set,
// resolves to an existing type or creates one implicitly.
type ProductInput struct {
	Name     string
	Price    uint
	TypeName string
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	typeRepo repositories.TypeRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, typeRepo repositories.TypeRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		typeRepo: typeRepo,
	}
}

// List retrieves all products with their type and options.
func (s *ProductService) List() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetBySlug retrieves a single product by its slug.
func (s *ProductService) GetBySlug(slugKey string) (*models.Product, error) {
	return s.repo.GetBySlug(slugKey)
}

// Create creates a new product. Only managers may. The slug is derived
// deterministically from the name.
func (s *ProductService) Create(actor models.Actor, in ProductInput) (*models.Product, error) {
	if !policies.CanManageProduct(actor) {
		return nil, ErrPermissionDenied
	}

	product := &models.Product{
		Name:  in.Name,
		Slug:  slug.Make(in.Name),
		Price: in.Price,
	}
	if in.TypeName != "" {
		t, err := s.typeRepo.GetOrCreateByName(in.TypeName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve type %q: %w", in.TypeName, err)
		}
		product.TypeID = &t.ID
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return s.repo.GetByID(product.ID)
}

// Update updates an existing product, addressed by its current slug. Only
// managers may. The slug is recomputed from the new name.
func (s *ProductService) Update(actor models.Actor, slugKey string, in ProductInput) (*models.Product, error) {
	product, err := s.repo.GetBySlug(slugKey)
	if err != nil {
		return nil, err
	}
	if !policies.CanManageProduct(actor) {
		return nil, ErrPermissionDenied
	}

	product.Name = in.Name
	product.Slug = slug.Make(in.Name)
	product.Price = in.Price
	if in.TypeName != "" {
		t, err := s.typeRepo.GetOrCreateByName(in.TypeName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve type %q: %w", in.TypeName, err)
		}
		product.TypeID = &t.ID
	} else {
		product.TypeID = nil
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return s.repo.GetByID(product.ID)
}

// Delete soft-deletes a product, addressed by its slug. Cart items keep
// their snapshotted prices. The boolean mirrors the order delete contract:
// false with a nil error is an authorization refusal.
func (s *ProductService) Delete(actor models.Actor, slugKey string) (bool, error) {
	product, err := s.repo.GetBySlug(slugKey)
	if err != nil {
		return false, err
	}
	if !policies.CanManageProduct(actor) {
		return false, nil
	}
	if err := s.repo.Delete(product.ID); err != nil {
		return false, err
	}
	return true, nil
}

// Types lists all types with their options, for the product forms.
func (s *ProductService) Types() ([]models.Type, error) {
	return s.typeRepo.GetAll()
}
